package validation

import (
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"authapi/internal/core/model/request"
)

func TestValidator_SignUpRequest(t *testing.T) {
	g := NewWithT(t)

	err := Validator.Struct(request.SignUpRequest{Email: "invalid-email", Password: "123"})
	g.Expect(err).To(HaveOccurred())

	errs := FormatValidationErrors(err)
	g.Expect(errs).To(HaveLen(2))
	g.Expect(errs[0].Field).To(Equal("email"))
	g.Expect(errs[0].Message).To(Equal("Email must be a valid email"))
	g.Expect(errs[1].Field).To(Equal("password"))
	g.Expect(errs[1].Message).To(Equal("Password must be at least 6 characters"))
}

func TestValidator_LoginRequest(t *testing.T) {
	g := NewWithT(t)

	err := Validator.Struct(request.LoginRequest{})
	errs := FormatValidationErrors(err)

	g.Expect(errs).To(HaveLen(2))
	g.Expect(errs[0].Message).To(Equal("Email is required"))
	g.Expect(errs[1].Message).To(Equal("Password is required"))

	g.Expect(Validator.Struct(request.LoginRequest{Email: "nouser@x.com", Password: "x"})).To(Succeed())
}

func TestValidator_NameIsOptional(t *testing.T) {
	g := NewWithT(t)

	g.Expect(Validator.Struct(request.SignUpRequest{Email: "a@x.com", Password: "secret123"})).To(Succeed())

	errs := FormatValidationErrors(Validator.Struct(request.SignUpRequest{Name: "A", Email: "a@x.com", Password: "secret123"}))
	g.Expect(errs).To(HaveLen(1))
	g.Expect(errs[0].Field).To(Equal("name"))
}

func TestValidator_PasswordLimitCountsBytes(t *testing.T) {
	g := NewWithT(t)

	// 40 characters, 80 bytes.
	wide := strings.Repeat("é", 40)

	errs := FormatValidationErrors(Validator.Struct(request.SignUpRequest{Email: "m@x.com", Password: wide}))
	g.Expect(errs).To(HaveLen(1))
	g.Expect(errs[0].Field).To(Equal("password"))
	g.Expect(errs[0].Message).To(Equal("Password must be at most 72 bytes"))

	errs = FormatValidationErrors(Validator.Struct(request.LoginRequest{Email: "m@x.com", Password: wide}))
	g.Expect(errs).To(HaveLen(1))

	g.Expect(Validator.Struct(request.SignUpRequest{Email: "m@x.com", Password: strings.Repeat("é", 36)})).To(Succeed())
	g.Expect(Validator.Struct(request.SignUpRequest{Email: "m@x.com", Password: strings.Repeat("a", 72)})).To(Succeed())
}
