package uploadcmder

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/ragchat/cmd/ragchat/cliconfig"
	"github.com/papercomputeco/ragchat/mockbackend"
)

var _ = Describe("Upload Command", func() {
	var (
		ctx     context.Context
		tmpDir  string
		csvPath string
		addr    string
		backend *mockbackend.Server
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		tmpDir, err = os.MkdirTemp("", "ragchat-upload-test-*")
		Expect(err).NotTo(HaveOccurred())
		csvPath = filepath.Join(tmpDir, "capitals.csv")

		backend, err = mockbackend.New(mockbackend.Config{}, zap.NewNop())
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
		os.RemoveAll(tmpDir)
	})

	newCmd := func(out *gbytes.Buffer, args ...string) *cobra.Command {
		root := &cobra.Command{Use: "ragchat", SilenceUsage: true, SilenceErrors: true}
		cliconfig.AddFlags(root)
		root.AddCommand(NewUploadCmd())
		root.SetOut(out)
		root.SetErr(gbytes.NewBuffer())
		root.SetArgs(append([]string{"--url", addr, "upload"}, args...))
		return root
	}

	writeCSV := func(content string) {
		Expect(os.WriteFile(csvPath, []byte(content), 0o600)).To(Succeed())
	}

	It("uploads the file and prints the status", func() {
		writeCSV("country,capital\nFrance,Paris\nJapan,Tokyo\n")

		out := gbytes.NewBuffer()
		err := newCmd(out, csvPath).ExecuteContext(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(out).To(gbytes.Say(`Success: Uploaded 2 chunks\.`))
		Expect(backend.ChunkCount()).To(Equal(2))
	})

	It("prints the error status and fails when the backend rejects the file", func() {
		writeCSV("")

		out := gbytes.NewBuffer()
		err := newCmd(out, csvPath).ExecuteContext(ctx)
		Expect(err).To(HaveOccurred())

		Expect(out).To(gbytes.Say(`Error: request failed with status code 400`))
		Expect(backend.ChunkCount()).To(Equal(0))
	})

	It("fails for a missing file without reaching the backend", func() {
		out := gbytes.NewBuffer()
		err := newCmd(out, filepath.Join(tmpDir, "missing.csv")).ExecuteContext(ctx)
		Expect(err).To(HaveOccurred())

		Expect(out).To(gbytes.Say(`Error: `))
		Expect(backend.ChunkCount()).To(Equal(0))
	})

	It("re-uploads on change when watching", func() {
		writeCSV("country,capital\nFrance,Paris\n")

		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		out := gbytes.NewBuffer()
		done := make(chan error, 1)
		go func() {
			done <- newCmd(out, "--watch", "--debounce", "50ms", csvPath).ExecuteContext(watchCtx)
		}()

		Eventually(backend.ChunkCount, 5*time.Second).Should(Equal(1))

		// Give the watcher time to register before writing.
		time.Sleep(200 * time.Millisecond)
		writeCSV("country,capital\nFrance,Paris\nJapan,Tokyo\n")

		Eventually(backend.ChunkCount, 5*time.Second).Should(Equal(3))
		Expect(out).To(gbytes.Say(`Success: Uploaded 1 chunks\.`))
		Expect(out).To(gbytes.Say(`Success: Uploaded 2 chunks\.`))

		cancel()
		Eventually(done, 5*time.Second).Should(Receive(BeNil()))
	})
})
