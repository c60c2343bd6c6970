package client_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/ragchat/client"
	"github.com/papercomputeco/ragchat/mockbackend"
	pkghttp "github.com/papercomputeco/ragchat/pkg/http"
)

var _ = Describe("Client", func() {
	var (
		ctx context.Context
		srv *httptest.Server
		c   *client.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if srv != nil {
			srv.Close()
			srv = nil
		}
	})

	serve := func(app *fiber.App) {
		srv = httptest.NewServer(adaptor.FiberApp(app))
		c = client.New(client.Config{BaseURL: srv.URL}, zap.NewNop())
	}

	Context("against the mock backend", func() {
		BeforeEach(func() {
			mb, err := mockbackend.New(mockbackend.Config{Answer: "Paris"}, zap.NewNop())
			Expect(err).NotTo(HaveOccurred())
			serve(mb.App())
		})

		It("uploads a CSV and reports the indexed chunk count", func() {
			resp, err := c.Upload(ctx, "/tmp/capitals.csv", strings.NewReader("country,capital\nFrance,Paris\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.ChunksIndexed).To(Equal(1))
		})

		It("asks a question and returns answer and context", func() {
			_, err := c.Upload(ctx, "capitals.csv", strings.NewReader("country,capital\nFrance,Paris\n"))
			Expect(err).NotTo(HaveOccurred())

			resp, err := c.Ask(ctx, "capital of France?")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Answer).To(Equal("Paris"))
			Expect(resp.Context).To(Equal([]string{"France | Paris"}))
		})

		It("reads health and banner", func() {
			health, err := c.Health(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(health.Status).To(Equal("ok"))

			banner, err := c.Banner(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(banner.Message).NotTo(BeEmpty())
		})

		It("waits until healthy", func() {
			health, err := c.WaitHealthy(ctx, 3, 10*time.Millisecond)
			Expect(err).NotTo(HaveOccurred())
			Expect(health.Status).To(Equal("ok"))
		})
	})

	Context("when the backend fails", func() {
		It("surfaces a structured message", func() {
			app := fiber.New()
			app.Post("/upload", func(c *fiber.Ctx) error {
				return c.Status(500).JSON(fiber.Map{"status": "error", "message": "bad format"})
			})
			serve(app)

			_, err := c.Upload(ctx, "x.csv", strings.NewReader("a\n1\n"))
			Expect(err).To(HaveOccurred())
			Expect(client.ErrorMessage(err)).To(Equal("bad format"))
		})

		It("falls back to the transport text without a message", func() {
			app := fiber.New()
			app.Post("/upload", func(c *fiber.Ctx) error {
				return c.Status(400).JSON(fiber.Map{"detail": "File is empty"})
			})
			serve(app)

			_, err := c.Upload(ctx, "x.csv", strings.NewReader(""))
			Expect(err).To(HaveOccurred())
			Expect(client.ErrorMessage(err)).To(Equal("request failed with status code 400"))
		})

		It("falls back to the transport text for non-JSON bodies", func() {
			app := fiber.New()
			app.Post("/ask", func(c *fiber.Ctx) error {
				return c.Status(502).SendString("bad gateway")
			})
			serve(app)

			_, err := c.Ask(ctx, "q")
			Expect(err).To(HaveOccurred())

			var httpErr *pkghttp.HTTPError
			Expect(errors.As(err, &httpErr)).To(BeTrue())
			Expect(client.ErrorMessage(err)).To(Equal("request failed with status code 502"))
		})

		It("retries health until it turns ok", func() {
			var calls atomic.Int32
			app := fiber.New()
			app.Get("/health", func(c *fiber.Ctx) error {
				if calls.Add(1) < 3 {
					return c.Status(500).JSON(fiber.Map{"status": "error", "message": "warming up"})
				}
				return c.JSON(fiber.Map{"status": "ok"})
			})
			serve(app)

			_, err := c.WaitHealthy(ctx, 5, time.Millisecond)
			Expect(err).NotTo(HaveOccurred())
			Expect(calls.Load()).To(BeNumerically("==", 3))
		})

		It("gives up after the configured attempts", func() {
			app := fiber.New()
			app.Get("/health", func(c *fiber.Ctx) error {
				return c.Status(500).JSON(fiber.Map{"status": "error"})
			})
			serve(app)

			_, err := c.WaitHealthy(ctx, 2, time.Millisecond)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("not healthy"))
		})
	})

	Describe("ErrorMessage", func() {
		It("is empty for nil", func() {
			Expect(client.ErrorMessage(nil)).To(BeEmpty())
		})

		It("uses the error text for network errors", func() {
			err := &pkghttp.NetworkError{Err: errors.New("connection refused")}
			Expect(client.ErrorMessage(err)).To(Equal("network error: connection refused"))
		})

		It("ignores an empty message field", func() {
			err := &pkghttp.HTTPError{StatusCode: 500, Body: []byte(`{"message":""}`)}
			Expect(client.ErrorMessage(err)).To(Equal("request failed with status code 500"))
		})
	})
})
