package user_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mfirmanda/helpdesk-management/internal/user"
)

var _ = Describe("ParseUsersCSV", func() {
	header := "employeeId,username,password,name,email,mobile,department,designation,role\n"

	It("should parse valid rows into create payloads", func() {
		input := header +
			"EMP-001,jdoe,password123,J. Doe,jdoe@example.com,555-0100,Finance,Analyst,employee\n" +
			"EMP-002,asmith,password456,A. Smith,asmith@example.com,,IT,Technician,agent\n"

		dtos, err := user.ParseUsersCSV(strings.NewReader(input))

		Expect(err).ToNot(HaveOccurred())
		Expect(dtos).To(HaveLen(2))
		Expect(dtos[0].Username).To(Equal("jdoe"))
		Expect(dtos[1].Role).To(Equal("agent"))
	})

	It("should reject a wrong header", func() {
		input := "username,password\njdoe,password123\n"
		_, err := user.ParseUsersCSV(strings.NewReader(input))
		Expect(err).To(HaveOccurred())
	})

	It("should reject a bad row with its line number", func() {
		input := header +
			"EMP-001,jdoe,password123,J. Doe,jdoe@example.com,,Finance,Analyst,employee\n" +
			"EMP-002,asmith,short,A. Smith,asmith@example.com,,IT,Technician,agent\n"

		_, err := user.ParseUsersCSV(strings.NewReader(input))

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("line 3"))
	})
})

var _ = Describe("WriteUsersCSV", func() {
	It("should never include password material", func() {
		users := []*user.User{
			{
				EmployeeID:   "EMP-001",
				Username:     "jdoe",
				PasswordHash: "$2a$10$secret",
				Name:         "J. Doe",
				Email:        "jdoe@example.com",
				Role:         user.RoleEmployee,
			},
		}

		var buf bytes.Buffer
		Expect(user.WriteUsersCSV(&buf, users)).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring("jdoe@example.com"))
		Expect(out).ToNot(ContainSubstring("password"))
		Expect(out).ToNot(ContainSubstring("$2a$10$secret"))
	})
})
