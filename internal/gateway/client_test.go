package gateway_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/bill-tracking/internal"
	"github.com/frahmantamala/bill-tracking/internal/bills"
	"github.com/frahmantamala/bill-tracking/internal/gateway"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token() (string, error) {
	return s.token, s.err
}

func newTestClient(baseURL string) *gateway.Client {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	return gateway.NewClient(gateway.Config{BaseURL: baseURL}, staticTokens{token: "test-token"}, logger)
}

var _ = Describe("Client", func() {
	Describe("List", func() {
		It("should decode the bills collection and send the bearer token", func() {
			var gotAuth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				Expect(r.Method).To(Equal(http.MethodGet))
				Expect(r.URL.Path).To(Equal("/api/v1/bills"))
				json.NewEncoder(w).Encode(map[string]interface{}{
					"bills": []bills.Bill{
						{ID: "47qAXb6fIm2zOKkLzMro", Type: "Transports", Date: "2023-01-01", Amount: 100},
					},
				})
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			list, err := client.List(context.Background())
			Expect(err).ToNot(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal("47qAXb6fIm2zOKkLzMro"))
			Expect(gotAuth).To(Equal("Bearer test-token"))
		})

		It("should surface upstream failures as transport errors", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			_, err := client.List(context.Background())
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeTransport))
			Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("should report an unreachable service", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			server.Close()

			client := newTestClient(server.URL)
			_, err := client.List(context.Background())
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeTransport))
		})
	})

	Describe("Create", func() {
		It("should post the receipt as multipart form data", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.URL.Path).To(Equal("/api/v1/bills"))

				Expect(r.ParseMultipartForm(1 << 20)).To(Succeed())
				Expect(r.FormValue("email")).To(Equal("employee@test.tld"))

				file, header, err := r.FormFile("file")
				Expect(err).ToNot(HaveOccurred())
				defer file.Close()
				Expect(header.Filename).To(Equal("receipt.jpg"))

				json.NewEncoder(w).Encode(bills.ReceiptUpload{
					FileURL:  "https://host/images/receipt.jpg",
					Key:      "1234",
					FileName: "receipt.jpg",
				})
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			upload, err := client.Create(context.Background(), bills.ReceiptPayload{
				FileName: "receipt.jpg",
				Content:  strings.NewReader("jpeg bytes"),
				Email:    "employee@test.tld",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(upload.Key).To(Equal("1234"))
			Expect(upload.FileURL).To(Equal("https://host/images/receipt.jpg"))
		})
	})

	Describe("Update", func() {
		It("should put the bill at its resource path", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodPut))
				Expect(r.URL.Path).To(Equal("/api/v1/bills/47qAXb6fIm2zOKkLzMro"))
				Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))

				var bill bills.Bill
				Expect(json.NewDecoder(r.Body).Decode(&bill)).To(Succeed())
				Expect(bill.Status).To(Equal(bills.StatusPending))

				json.NewEncoder(w).Encode(bill)
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			updated, err := client.Update(context.Background(), bills.Bill{
				ID:     "47qAXb6fIm2zOKkLzMro",
				Email:  "employee@test.tld",
				Status: bills.StatusPending,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.ID).To(Equal("47qAXb6fIm2zOKkLzMro"))
		})

		It("should return the upstream status on rejection", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			_, err := client.Update(context.Background(), bills.Bill{ID: "x"})
			Expect(err).To(HaveOccurred())

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
		})
	})
})
