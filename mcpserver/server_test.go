package mcpserver_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/gofiber/adaptor/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/ragchat/client"
	"github.com/papercomputeco/ragchat/mcpserver"
	"github.com/papercomputeco/ragchat/mockbackend"
)

var _ = Describe("MCP tools", func() {
	var (
		ctx     context.Context
		backend *httptest.Server
		server  *mcpserver.Server
		session *mcp.ClientSession
		tmpDir  string
	)

	BeforeEach(func() {
		ctx = context.Background()

		mb, err := mockbackend.New(mockbackend.Config{Answer: "Paris"}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())
		backend = httptest.NewServer(adaptor.FiberApp(mb.App()))

		c := client.New(client.Config{BaseURL: backend.URL}, zap.NewNop())
		server = mcpserver.New(mcpserver.Config{Version: "test"}, c, zap.NewNop())

		serverTransport, clientTransport := mcp.NewInMemoryTransports()
		_, err = server.MCP().Connect(ctx, serverTransport, nil)
		Expect(err).NotTo(HaveOccurred())

		mcpClient := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
		session, err = mcpClient.Connect(ctx, clientTransport, nil)
		Expect(err).NotTo(HaveOccurred())

		tmpDir, err = os.MkdirTemp("", "ragchat-mcp-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		session.Close()
		backend.Close()
		os.RemoveAll(tmpDir)
	})

	call := func(name string, args map[string]any) *mcp.CallToolResult {
		res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: args})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Content).NotTo(BeEmpty())
		return res
	}

	text := func(res *mcp.CallToolResult) string {
		tc, ok := res.Content[0].(*mcp.TextContent)
		Expect(ok).To(BeTrue())
		return tc.Text
	}

	writeCSV := func(content string) string {
		path := filepath.Join(tmpDir, "capitals.csv")
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
		return path
	}

	It("lists the tools", func() {
		tools, err := session.ListTools(ctx, nil)
		Expect(err).NotTo(HaveOccurred())

		var names []string
		for _, t := range tools.Tools {
			names = append(names, t.Name)
		}
		Expect(names).To(ConsistOf("upload_csv", "ask", "history"))
	})

	It("uploads a CSV and reports the status line", func() {
		res := call("upload_csv", map[string]any{"path": writeCSV("country,capital\nFrance,Paris\nJapan,Tokyo\n")})
		Expect(res.IsError).To(BeFalse())
		Expect(text(res)).To(Equal("Success: Uploaded 2 chunks."))
	})

	It("reports backend upload errors as tool errors", func() {
		res := call("upload_csv", map[string]any{"path": writeCSV("")})
		Expect(res.IsError).To(BeTrue())
		Expect(text(res)).To(Equal("Error: request failed with status code 400"))
	})

	It("carries the backend's structured message", func() {
		res := call("upload_csv", map[string]any{"path": writeCSV("a,b\n1,\"2\n")})
		Expect(res.IsError).To(BeTrue())
		Expect(text(res)).To(HavePrefix("Error: "))
		Expect(text(res)).To(ContainSubstring("quote"))
	})

	It("rejects an empty path", func() {
		res := call("upload_csv", map[string]any{"path": ""})
		Expect(res.IsError).To(BeTrue())
	})

	It("answers questions and records them in the history", func() {
		call("upload_csv", map[string]any{"path": writeCSV("country,capital\nFrance,Paris\n")})

		res := call("ask", map[string]any{"question": "capital of France?"})
		Expect(res.IsError).To(BeFalse())
		Expect(text(res)).To(Equal("Paris"))

		turns := server.Conversation().Turns()
		Expect(turns).To(HaveLen(1))
		Expect(turns[0].Question).To(Equal("capital of France?"))
		Expect(turns[0].Context).To(Equal([]string{"France | Paris"}))

		history := call("history", map[string]any{})
		Expect(text(history)).To(ContainSubstring("Q: capital of France?"))
		Expect(text(history)).To(ContainSubstring("France | Paris"))
	})

	It("rejects a blank question without calling the backend", func() {
		res := call("ask", map[string]any{"question": "   "})
		Expect(res.IsError).To(BeTrue())
		Expect(server.Conversation().Len()).To(Equal(0))
	})
})
