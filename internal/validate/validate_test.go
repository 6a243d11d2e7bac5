package validate

import (
	"strings"
	"testing"
)

func TestInquiryRules(t *testing.T) {
	in, errs := Inquiry(InquiryInput{
		VehicleID: " veh-42 ",
		Subject:   "  Test drive?  ",
		Message:   "Can I test drive this weekend?",
	})
	if errs.Any() {
		t.Fatalf("expected valid input, got %v", errs)
	}
	if in.VehicleID != "veh-42" || in.Subject != "Test drive?" {
		t.Fatalf("expected trimmed fields, got %+v", in)
	}

	_, errs = Inquiry(InquiryInput{VehicleID: "veh-42", Subject: "Hey", Message: "Can I test drive this weekend?"})
	if errs["subject"] == "" {
		t.Fatalf("expected subject error for 3-char subject, got %v", errs)
	}

	_, errs = Inquiry(InquiryInput{VehicleID: "veh-42", Subject: "Test drive?", Message: "too short"})
	if errs["message"] == "" {
		t.Fatalf("expected message error for 9-char message, got %v", errs)
	}

	_, errs = Inquiry(InquiryInput{VehicleID: "veh-42", Subject: "Test drive?", Message: strings.Repeat("x", 2001)})
	if errs["message"] == "" {
		t.Fatalf("expected message error above max length, got %v", errs)
	}

	_, errs = Inquiry(InquiryInput{Subject: "Test drive?", Message: "Can I test drive this weekend?"})
	if errs["vehicleId"] == "" {
		t.Fatalf("expected vehicleId error, got %v", errs)
	}
}

func TestInquiryLengthsCountRunes(t *testing.T) {
	// 4 runes but 12 bytes; the minimum is 5 characters.
	_, errs := Inquiry(InquiryInput{VehicleID: "veh-42", Subject: "納車希望", Message: "Can I test drive this weekend?"})
	if errs["subject"] == "" {
		t.Fatalf("expected subject error for 4-rune subject, got %v", errs)
	}

	_, errs = Inquiry(InquiryInput{
		VehicleID: "veh-42",
		Subject:   "納車の相談です",
		Message:   "試乗を希望します。今週末は空いていますか。",
	})
	if errs.Any() {
		t.Fatalf("expected multibyte input within bounds to pass, got %v", errs)
	}

	// 1500 runes is inside the 2000 maximum even at 3 bytes each.
	_, errs = Inquiry(InquiryInput{VehicleID: "veh-42", Subject: "Test drive?", Message: strings.Repeat("車", 1500)})
	if errs["message"] != "" {
		t.Fatalf("expected 1500-rune message to pass, got %v", errs)
	}

	_, errs = Response(ResponseInput{InquiryID: "inq-1", Message: "土曜で大丈夫です"})
	if errs["message"] == "" {
		t.Fatalf("expected response error for 8-rune message, got %v", errs)
	}
}

func TestResponseRules(t *testing.T) {
	_, errs := Response(ResponseInput{InquiryID: "inq-1", Message: "Yes, Saturday works."})
	if errs.Any() {
		t.Fatalf("expected valid response, got %v", errs)
	}
	_, errs = Response(ResponseInput{InquiryID: "", Message: "Yes, Saturday works."})
	if errs["inquiryId"] == "" {
		t.Fatalf("expected inquiryId error, got %v", errs)
	}
	_, errs = Response(ResponseInput{InquiryID: "inq-1", Message: "short"})
	if errs["message"] == "" {
		t.Fatalf("expected message error, got %v", errs)
	}
}

func TestClassificationNameRules(t *testing.T) {
	if _, errs := ClassificationName("Trucks"); errs.Any() {
		t.Fatalf("expected valid name, got %v", errs)
	}
	if _, errs := ClassificationName("Sport Utility"); errs["name"] == "" {
		t.Fatalf("expected error for name with space")
	}
	if _, errs := ClassificationName(""); errs["name"] == "" {
		t.Fatalf("expected error for empty name")
	}
}

func TestVehicleRules(t *testing.T) {
	valid := VehicleInput{
		ClassificationID: "cls-1",
		Make:             "Toyota",
		Model:            "Camry",
		Year:             2021,
		Description:      "Clean one-owner sedan",
		Price:            18999.50,
		Miles:            42000,
		Color:            "Blue",
	}
	if _, errs := Vehicle(valid); errs.Any() {
		t.Fatalf("expected valid vehicle, got %v", errs)
	}

	bad := valid
	bad.Make = "GM"
	bad.Year = 99
	bad.Price = -1
	_, errs := Vehicle(bad)
	for _, field := range []string{"make", "year", "price"} {
		if errs[field] == "" {
			t.Fatalf("expected %s error, got %v", field, errs)
		}
	}
}

func TestRegistrationRules(t *testing.T) {
	in, errs := Registration(RegistrationInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     " Ada@Example.COM ",
		Password:  "a-long-enough-password",
	})
	if errs.Any() {
		t.Fatalf("expected valid registration, got %v", errs)
	}
	if in.Email != "ada@example.com" {
		t.Fatalf("expected lowercased trimmed email, got %q", in.Email)
	}

	_, errs = Registration(RegistrationInput{FirstName: "Ada", LastName: "Lovelace", Email: "not-an-email", Password: "a-long-enough-password"})
	if errs["email"] == "" {
		t.Fatalf("expected email error, got %v", errs)
	}
	_, errs = Registration(RegistrationInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Password: "short"})
	if errs["password"] == "" {
		t.Fatalf("expected password error, got %v", errs)
	}
}
