package billserver_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/bill-tracking/internal"
	"github.com/frahmantamala/bill-tracking/internal/billserver"
	"github.com/frahmantamala/bill-tracking/internal/billserver/postgres"
	"github.com/frahmantamala/bill-tracking/internal/bills"
	"github.com/frahmantamala/bill-tracking/internal/transport"
)

// withEmail stands in for the auth middleware in handler tests.
func withEmail(email string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next(w, r.WithContext(internal.ContextWithEmail(r.Context(), email)))
	}
}

var _ = Describe("Handler", func() {
	var (
		db      *gorm.DB
		handler *billserver.Handler
		router  *chi.Mux
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(db.AutoMigrate(&billserver.BillRecord{})).To(Succeed())

		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 1}))
		receipts, err := billserver.NewLocalReceiptStore(
			filepath.Join(GinkgoT().TempDir(), "uploads"),
			"https://host/images",
		)
		Expect(err).ToNot(HaveOccurred())
		service := billserver.NewService(postgres.NewBillRepository(db), receipts, lg)
		handler = billserver.NewHandler(transport.NewBaseHandler(lg), service, 0)

		router = chi.NewRouter()
		router.Get("/bills", withEmail("employee@test.tld", handler.ListBills))
		router.Post("/bills", withEmail("employee@test.tld", handler.CreateBill))
		router.Put("/bills/{id}", withEmail("employee@test.tld", handler.UpdateBill))
	})

	uploadReceipt := func(fileName string) bills.ReceiptUpload {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		Expect(writer.WriteField("email", "employee@test.tld")).To(Succeed())
		part, err := writer.CreateFormFile("file", fileName)
		Expect(err).ToNot(HaveOccurred())
		_, err = part.Write([]byte("jpeg bytes"))
		Expect(err).ToNot(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		req := httptest.NewRequest(http.MethodPost, "/bills", &body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusCreated))
		var upload bills.ReceiptUpload
		Expect(json.Unmarshal(rec.Body.Bytes(), &upload)).To(Succeed())
		return upload
	}

	Describe("POST /bills", func() {
		It("should open a draft and return the stored file location", func() {
			upload := uploadReceipt("receipt.jpg")

			Expect(upload.Key).ToNot(BeEmpty())
			Expect(upload.FileName).To(Equal("receipt.jpg"))
			Expect(upload.FileURL).To(HavePrefix("https://host/images/"))
			Expect(upload.FileURL).To(HaveSuffix("_receipt.jpg"))
		})

		It("should reject an unsupported extension", func() {
			var body bytes.Buffer
			writer := multipart.NewWriter(&body)
			part, err := writer.CreateFormFile("file", "receipt.pdf")
			Expect(err).ToNot(HaveOccurred())
			_, err = part.Write([]byte("pdf bytes"))
			Expect(err).ToNot(HaveOccurred())
			Expect(writer.Close()).To(Succeed())

			req := httptest.NewRequest(http.MethodPost, "/bills", &body)
			req.Header.Set("Content-Type", writer.FormDataContentType())
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject an oversized receipt instead of truncating it", func() {
			lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 1}))
			receipts, err := billserver.NewLocalReceiptStore(
				filepath.Join(GinkgoT().TempDir(), "uploads"),
				"https://host/images",
			)
			Expect(err).ToNot(HaveOccurred())
			service := billserver.NewService(postgres.NewBillRepository(db), receipts, lg)
			small := billserver.NewHandler(transport.NewBaseHandler(lg), service, 64)

			limited := chi.NewRouter()
			limited.Post("/bills", withEmail("employee@test.tld", small.CreateBill))
			limited.Get("/bills", withEmail("employee@test.tld", small.ListBills))

			var body bytes.Buffer
			writer := multipart.NewWriter(&body)
			part, err := writer.CreateFormFile("file", "big.jpg")
			Expect(err).ToNot(HaveOccurred())
			_, err = part.Write(bytes.Repeat([]byte("x"), 1024))
			Expect(err).ToNot(HaveOccurred())
			Expect(writer.Close()).To(Succeed())

			req := httptest.NewRequest(http.MethodPost, "/bills", &body)
			req.Header.Set("Content-Type", writer.FormDataContentType())
			rec := httptest.NewRecorder()
			limited.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusRequestEntityTooLarge))

			// no draft record either; the fragment must not be stored
			listReq := httptest.NewRequest(http.MethodGet, "/bills", nil)
			listRec := httptest.NewRecorder()
			limited.ServeHTTP(listRec, listReq)

			var resp billserver.ListBillsResponse
			Expect(json.Unmarshal(listRec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Bills).To(BeEmpty())
		})

		It("should reject a request without a file part", func() {
			var body bytes.Buffer
			writer := multipart.NewWriter(&body)
			Expect(writer.WriteField("email", "employee@test.tld")).To(Succeed())
			Expect(writer.Close()).To(Succeed())

			req := httptest.NewRequest(http.MethodPost, "/bills", &body)
			req.Header.Set("Content-Type", writer.FormDataContentType())
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("PUT /bills/{id}", func() {
		It("should complete a draft into a pending bill", func() {
			upload := uploadReceipt("receipt.jpg")

			payload := `{
				"email": "employee@test.tld",
				"type": "Transports",
				"name": "Vol Paris Londres",
				"date": "2023-06-15",
				"amount": 348,
				"vat": 70,
				"pct": 20,
				"commentary": "Business trip",
				"status": "pending"
			}`
			req := httptest.NewRequest(http.MethodPut, "/bills/"+upload.Key, strings.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var bill bills.Bill
			Expect(json.Unmarshal(rec.Body.Bytes(), &bill)).To(Succeed())
			Expect(bill.ID).To(Equal(upload.Key))
			Expect(bill.Name).To(Equal("Vol Paris Londres"))
			Expect(bill.Status).To(Equal(bills.StatusPending))
			Expect(bill.FileURL).ToNot(BeEmpty())
		})

		It("should return 404 for an unknown bill", func() {
			payload := `{"type": "Transports", "name": "x", "date": "2023-06-15"}`
			req := httptest.NewRequest(http.MethodPut, "/bills/missing", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 400 on a malformed body", func() {
			req := httptest.NewRequest(http.MethodPut, "/bills/some-id", strings.NewReader("{"))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /bills", func() {
		It("should list the caller's bills under the bills key", func() {
			uploadReceipt("receipt.jpg")

			req := httptest.NewRequest(http.MethodGet, "/bills", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp billserver.ListBillsResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Bills).To(HaveLen(1))
			Expect(resp.Bills[0].Email).To(Equal("employee@test.tld"))
			Expect(resp.Bills[0].Status).To(Equal(bills.StatusPending))
		})

		It("should return 401 without an identity", func() {
			bare := chi.NewRouter()
			bare.Get("/bills", handler.ListBills)

			req := httptest.NewRequest(http.MethodGet, "/bills", nil)
			rec := httptest.NewRecorder()
			bare.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
