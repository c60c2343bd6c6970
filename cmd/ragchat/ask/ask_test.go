package askcmder

import (
	"context"
	"encoding/json"
	"net"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/ragchat/cmd/ragchat/cliconfig"
	"github.com/papercomputeco/ragchat/mockbackend"
	"github.com/papercomputeco/ragchat/pkg/conversation"
)

var _ = Describe("Ask Command", func() {
	var (
		ctx     context.Context
		addr    string
		backend *mockbackend.Server
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		backend, err = mockbackend.New(mockbackend.Config{Answer: "Paris"}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		go func() {
			_ = backend.RunWithListener(listener)
		}()
		addr = "http://" + listener.Addr().String()
	})

	AfterEach(func() {
		_ = backend.Shutdown()
	})

	run := func(args ...string) (string, error) {
		out := gbytes.NewBuffer()
		root := &cobra.Command{Use: "ragchat", SilenceUsage: true, SilenceErrors: true}
		cliconfig.AddFlags(root)
		root.AddCommand(NewAskCmd())
		root.SetOut(out)
		root.SetErr(gbytes.NewBuffer())
		root.SetArgs(append([]string{"--url", addr, "ask"}, args...))

		err := root.ExecuteContext(ctx)
		return string(out.Contents()), err
	}

	It("answers with the no-match reply before anything is uploaded", func() {
		out, err := run("anything?")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("A: " + mockbackend.NoMatchAnswer))
	})

	Context("with indexed rows", func() {
		BeforeEach(func() {
			app := backend.App()
			req := uploadRequest("country,capital\nFrance,Paris\nJapan,Tokyo\n")
			resp, err := app.Test(req)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(200))
		})

		It("prints the question, answer and context", func() {
			out, err := run("capital", "of", "France?")
			Expect(err).NotTo(HaveOccurred())

			Expect(out).To(ContainSubstring("Q: capital of France?"))
			Expect(out).To(ContainSubstring("A: Paris"))
			Expect(out).To(ContainSubstring("France | Paris"))
			Expect(out).To(ContainSubstring("Japan | Tokyo"))
		})

		It("omits the context with --no-context", func() {
			out, err := run("--no-context", "capital of France?")
			Expect(err).NotTo(HaveOccurred())

			Expect(out).To(ContainSubstring("A: Paris"))
			Expect(out).NotTo(ContainSubstring("France | Paris"))
			Expect(out).NotTo(ContainSubstring("Context"))
		})

		It("prints the turn as JSON", func() {
			out, err := run("--json", "capital of France?")
			Expect(err).NotTo(HaveOccurred())

			var turn conversation.Turn
			Expect(json.Unmarshal([]byte(out), &turn)).To(Succeed())
			Expect(turn.Question).To(Equal("capital of France?"))
			Expect(turn.Answer).To(Equal("Paris"))
			Expect(turn.Context).To(Equal([]string{"France | Paris", "Japan | Tokyo"}))
		})
	})

	It("rejects a blank question", func() {
		_, err := run("   ")
		Expect(err).To(MatchError(ContainSubstring("must not be empty")))
	})

	It("reports backend errors", func() {
		_ = backend.Shutdown()

		out, err := run("capital of France?")
		Expect(err).To(HaveOccurred())
		Expect(strings.TrimSpace(out)).To(BeEmpty())
	})
})
