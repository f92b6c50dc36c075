package auth_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/bill-tracking/internal"
	"github.com/frahmantamala/bill-tracking/internal/auth"
	"github.com/frahmantamala/bill-tracking/internal/session"
)

var _ = Describe("TokenManager", func() {
	var manager *auth.TokenManager

	BeforeEach(func() {
		manager = auth.NewTokenManager("test-secret-at-least-32-characters!!", time.Hour)
	})

	It("should round-trip identity claims", func() {
		token, err := manager.Mint(session.User{Type: session.TypeEmployee, Email: "employee@test.tld"})
		Expect(err).ToNot(HaveOccurred())
		Expect(token).ToNot(BeEmpty())

		claims, err := manager.Parse(token)
		Expect(err).ToNot(HaveOccurred())
		Expect(claims.Email).To(Equal("employee@test.tld"))
		Expect(claims.UserType).To(Equal(session.TypeEmployee))
	})

	It("should reject a token signed with a different secret", func() {
		other := auth.NewTokenManager("another-secret-also-32-characters!!!", time.Hour)
		token, err := other.Mint(session.User{Email: "employee@test.tld"})
		Expect(err).ToNot(HaveOccurred())

		_, err = manager.Parse(token)
		Expect(err).To(HaveOccurred())

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeUnauthorized))
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidToken))
		Expect(appErr.StatusCode).To(Equal(401))
	})

	It("should reject an expired token", func() {
		shortLived := auth.NewTokenManager("test-secret-at-least-32-characters!!", time.Millisecond)
		token, err := shortLived.Mint(session.User{Email: "employee@test.tld"})
		Expect(err).ToNot(HaveOccurred())

		time.Sleep(10 * time.Millisecond)

		_, err = manager.Parse(token)
		Expect(err).To(HaveOccurred())
	})

	It("should reject garbage input", func() {
		_, err := manager.Parse("not.a.token")
		Expect(err).To(HaveOccurred())
	})
})
