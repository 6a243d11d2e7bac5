// Package validate holds field-level rules for request payloads. Each rule
// set trims its input, returns the cleaned values, and reports problems as a
// field -> message map so handlers can echo them next to the submitted data.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// FieldErrors maps a field name to a validation message.
type FieldErrors map[string]string

// Any reports whether validation produced at least one error.
func (e FieldErrors) Any() bool { return len(e) > 0 }

const (
	subjectMinLen  = 5
	subjectMaxLen  = 255
	messageMinLen  = 10
	messageMaxLen  = 2000
	passwordMinLen = 12
)

var (
	emailPattern          = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	classificationPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// InquiryInput carries a customer inquiry submission.
type InquiryInput struct {
	VehicleID string
	Subject   string
	Message   string
}

// Inquiry validates an inquiry submission.
func Inquiry(in InquiryInput) (InquiryInput, FieldErrors) {
	in.VehicleID = strings.TrimSpace(in.VehicleID)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	errs := FieldErrors{}
	if in.VehicleID == "" {
		errs["vehicleId"] = "Vehicle ID is required."
	}
	if n := utf8.RuneCountInString(in.Subject); n < subjectMinLen || n > subjectMaxLen {
		errs["subject"] = fmt.Sprintf("Subject must be between %d and %d characters.", subjectMinLen, subjectMaxLen)
	}
	if n := utf8.RuneCountInString(in.Message); n < messageMinLen || n > messageMaxLen {
		errs["message"] = fmt.Sprintf("Message must be between %d and %d characters.", messageMinLen, messageMaxLen)
	}
	return in, errs
}

// ResponseInput carries an employee response to an inquiry.
type ResponseInput struct {
	InquiryID string
	Message   string
}

// Response validates a response submission.
func Response(in ResponseInput) (ResponseInput, FieldErrors) {
	in.InquiryID = strings.TrimSpace(in.InquiryID)
	in.Message = strings.TrimSpace(in.Message)

	errs := FieldErrors{}
	if in.InquiryID == "" {
		errs["inquiryId"] = "Inquiry ID is required."
	}
	if n := utf8.RuneCountInString(in.Message); n < messageMinLen || n > messageMaxLen {
		errs["message"] = fmt.Sprintf("Response must be between %d and %d characters.", messageMinLen, messageMaxLen)
	}
	return in, errs
}

// ClassificationName validates a new classification name.
func ClassificationName(name string) (string, FieldErrors) {
	name = strings.TrimSpace(name)
	errs := FieldErrors{}
	if name == "" {
		errs["name"] = "Classification name is required."
	} else if !classificationPattern.MatchString(name) {
		errs["name"] = "Classification name cannot contain spaces or special characters."
	}
	return name, errs
}

// VehicleInput carries a vehicle listing create or update.
type VehicleInput struct {
	ClassificationID string
	Make             string
	Model            string
	Year             int
	Description      string
	Price            float64
	Miles            int64
	Color            string
	Features         map[string]string
}

// Vehicle validates a vehicle listing.
func Vehicle(in VehicleInput) (VehicleInput, FieldErrors) {
	in.ClassificationID = strings.TrimSpace(in.ClassificationID)
	in.Make = strings.TrimSpace(in.Make)
	in.Model = strings.TrimSpace(in.Model)
	in.Description = strings.TrimSpace(in.Description)
	in.Color = strings.TrimSpace(in.Color)

	errs := FieldErrors{}
	if in.ClassificationID == "" {
		errs["classificationId"] = "Please select a classification."
	}
	if len(in.Make) < 3 {
		errs["make"] = "Make is required and must be at least 3 characters."
	}
	if len(in.Model) < 3 {
		errs["model"] = "Model is required and must be at least 3 characters."
	}
	if in.Year < 1000 || in.Year > 9999 {
		errs["year"] = "Year must be a 4-digit number."
	}
	if in.Description == "" {
		errs["description"] = "Description is required."
	}
	if in.Price < 0 {
		errs["price"] = "Price must be a positive number."
	}
	if in.Miles < 0 {
		errs["miles"] = "Miles must be a positive number."
	}
	if in.Color == "" {
		errs["color"] = "Color is required."
	}
	return in, errs
}

// RegistrationInput carries a new account registration.
type RegistrationInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Registration validates an account registration.
func Registration(in RegistrationInput) (RegistrationInput, FieldErrors) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	errs := FieldErrors{}
	if in.FirstName == "" {
		errs["firstName"] = "First name is required."
	}
	if in.LastName == "" {
		errs["lastName"] = "Last name is required."
	}
	if !emailPattern.MatchString(in.Email) {
		errs["email"] = "A valid email address is required."
	}
	if len(in.Password) < passwordMinLen {
		errs["password"] = fmt.Sprintf("Password must be at least %d characters.", passwordMinLen)
	}
	return in, errs
}
