package healthcmder

import (
	"context"
	"encoding/json"
	"net"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/ragchat/cmd/ragchat/cliconfig"
	"github.com/papercomputeco/ragchat/mockbackend"
	"github.com/papercomputeco/ragchat/pkg/rag"
)

var _ = Describe("Health Command", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	run := func(addr string, args ...string) (string, error) {
		out := gbytes.NewBuffer()
		root := &cobra.Command{Use: "ragchat", SilenceUsage: true, SilenceErrors: true}
		cliconfig.AddFlags(root)
		root.AddCommand(NewHealthCmd())
		root.SetOut(out)
		root.SetErr(gbytes.NewBuffer())
		root.SetArgs(append([]string{"--url", addr, "health"}, args...))

		err := root.ExecuteContext(ctx)
		return string(out.Contents()), err
	}

	startBackend := func() (string, func()) {
		backend, err := mockbackend.New(mockbackend.Config{}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		go func() {
			_ = backend.RunWithListener(listener)
		}()

		return "http://" + listener.Addr().String(), func() { _ = backend.Shutdown() }
	}

	// closedAddr returns the URL of a port nothing listens on.
	closedAddr := func() string {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).NotTo(HaveOccurred())
		addr := "http://" + listener.Addr().String()
		Expect(listener.Close()).To(Succeed())
		return addr
	}

	It("reports a healthy backend", func() {
		addr, stop := startBackend()
		defer stop()

		out, err := run(addr)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("is ok"))
		Expect(out).To(ContainSubstring("0 indexed items"))
	})

	It("prints the response as JSON", func() {
		addr, stop := startBackend()
		defer stop()

		out, err := run(addr, "--json")
		Expect(err).NotTo(HaveOccurred())

		var health rag.HealthResponse
		Expect(json.Unmarshal([]byte(out), &health)).To(Succeed())
		Expect(health.Status).To(Equal("ok"))
	})

	It("fails when the backend is down", func() {
		_, err := run(closedAddr())
		Expect(err).To(HaveOccurred())
	})

	It("gives up waiting after the configured attempts", func() {
		_, err := run(closedAddr(), "--wait", "--attempts", "2", "--delay", "10ms")
		Expect(err).To(MatchError(ContainSubstring("not healthy")))
	})
})
