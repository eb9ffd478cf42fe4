package main_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestHelpdeskManagement(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "HelpdeskManagement Suite")
}
