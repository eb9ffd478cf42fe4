package user

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvHeader is the fixed column set for bulk user import/export.
var csvHeader = []string{
	"employeeId", "username", "password", "name", "email",
	"mobile", "department", "designation", "role",
}

// exportHeader mirrors csvHeader without the password column.
var exportHeader = []string{
	"employeeId", "username", "name", "email",
	"mobile", "department", "designation", "role",
}

// ParseUsersCSV reads a bulk-import file into create payloads. The header
// row must match csvHeader exactly; rows are validated individually so one
// bad row fails the whole import with its line number.
func ParseUsersCSV(r io.Reader) ([]CreateUserDTO, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(csvHeader), len(header))
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(col), csvHeader[i]) {
			return nil, fmt.Errorf("unexpected column %q at position %d, want %q", col, i+1, csvHeader[i])
		}
	}

	var dtos []CreateUserDTO
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		dto := CreateUserDTO{
			EmployeeID:  record[0],
			Username:    record[1],
			Password:    record[2],
			Name:        record[3],
			Email:       record[4],
			Mobile:      record[5],
			Department:  record[6],
			Designation: record[7],
			Role:        record[8],
		}
		if err := dto.Validate(); err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		dtos = append(dtos, dto)
	}

	return dtos, nil
}

// WriteUsersCSV exports accounts without password material.
func WriteUsersCSV(w io.Writer, users []*User) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, u := range users {
		record := []string{
			u.EmployeeID, u.Username, u.Name, u.Email,
			u.Mobile, u.Department, u.Designation, string(u.Role),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
