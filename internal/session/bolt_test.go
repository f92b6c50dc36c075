package session_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/bill-tracking/internal/session"
)

var _ = Describe("Store", func() {
	var store *session.Store

	BeforeEach(func() {
		path := filepath.Join(GinkgoT().TempDir(), "session.db")
		var err error
		store, err = session.Open(path)
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(store.Close()).To(Succeed())
	})

	Describe("CurrentUser", func() {
		It("should return ErrNoSession before login", func() {
			_, err := store.CurrentUser()
			Expect(err).To(MatchError(session.ErrNoSession))
		})

		It("should round-trip the saved identity", func() {
			user := session.User{Type: session.TypeEmployee, Email: "employee@test.tld"}
			Expect(store.SaveUser(user)).To(Succeed())

			got, err := store.CurrentUser()
			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(Equal(user))
		})

		It("should keep the most recent identity", func() {
			Expect(store.SaveUser(session.User{Type: session.TypeEmployee, Email: "a@test.tld"})).To(Succeed())
			Expect(store.SaveUser(session.User{Type: session.TypeAdmin, Email: "b@test.tld"})).To(Succeed())

			got, err := store.CurrentUser()
			Expect(err).ToNot(HaveOccurred())
			Expect(got.Email).To(Equal("b@test.tld"))
			Expect(got.Type).To(Equal(session.TypeAdmin))
		})
	})

	Describe("Token", func() {
		It("should return ErrNoSession before login", func() {
			_, err := store.Token()
			Expect(err).To(MatchError(session.ErrNoSession))
		})

		It("should round-trip the saved token", func() {
			Expect(store.SaveToken("bearer-token")).To(Succeed())

			token, err := store.Token()
			Expect(err).ToNot(HaveOccurred())
			Expect(token).To(Equal("bearer-token"))
		})
	})
})

var _ = Describe("Static", func() {
	It("should always return the configured identity", func() {
		provider := session.Static{User: session.User{Type: session.TypeEmployee, Email: "employee@test.tld"}}

		user, err := provider.CurrentUser()
		Expect(err).ToNot(HaveOccurred())
		Expect(user.Email).To(Equal("employee@test.tld"))
	})
})
