package profile

import "strings"

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate trims every field and reports the first empty required one, in form order.
func Validate(in Input) (Input, error) {
	out := Input{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Location:    strings.TrimSpace(in.Location),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
	}
	if in.MiddleName != nil {
		if m := strings.TrimSpace(*in.MiddleName); m != "" {
			out.MiddleName = &m
		}
	}

	required := []struct {
		field, value, message string
	}{
		{"first_name", out.FirstName, "First name is required"},
		{"last_name", out.LastName, "Last name is required"},
		{"location", out.Location, "Location is required"},
		{"phone_number", out.PhoneNumber, "Phone number is required"},
	}
	for _, r := range required {
		if r.value == "" {
			return Input{}, &ValidationError{Field: r.field, Message: r.message}
		}
	}
	return out, nil
}
