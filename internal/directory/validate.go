package directory

import (
	"path"
	"strings"
)

// Submission is a raw form submission. RecordID and Token are only set when
// an administrator edits an existing record through the form.
type Submission struct {
	RecordID      string
	Token         string
	Name          string
	Email         string
	Venue         string
	Position      string
	CashApp       string
	Venmo         string
	PayPal        string
	PhotoFilename string
}

// allowedImageExts is the photo format allow-list, compared case-insensitively.
var allowedImageExts = []string{".jpg", ".jpeg", ".png", ".gif"}

// Validate enforces the submission rules and accumulates every failure into a
// single FormError so the form can show all problems at once.
//
// Missing-field labels join into one sentence: the first label gets a "your"
// prefix unless it is the payment-method label, and the last gets an "and"
// prefix when more than one item is missing.
func Validate(sub Submission) error {
	var errs []string

	required := []struct {
		label string
		value string
	}{
		{"name", sub.Name},
		{"email", sub.Email},
		{"venue", sub.Venue},
		{"position", sub.Position},
	}

	var missing []string
	for _, field := range required {
		if field.value == "" {
			missing = append(missing, field.label)
		} else if field.label == "email" && !strings.Contains(field.value, "@") {
			missing = append(missing, "a valid email")
		}
	}
	if sub.CashApp == "" && sub.Venmo == "" && sub.PayPal == "" {
		missing = append(missing, "at least one payment method")
	}
	if len(missing) > 0 {
		if !strings.Contains(missing[0], "payment") {
			missing[0] = "your " + missing[0]
		}
		if len(missing) > 1 {
			missing[len(missing)-1] = "and " + missing[len(missing)-1]
		}
		errs = append(errs, "Please provide "+strings.Join(missing, ", "))
	}

	if sub.PhotoFilename != "" {
		ext := path.Ext(sub.PhotoFilename)
		if !allowedImageExt(ext) {
			errs = append(errs, "Unsupported photo format: "+ext)
		}
	}

	if len(errs) > 0 {
		return &FormError{Messages: errs}
	}
	return nil
}

func allowedImageExt(ext string) bool {
	lower := strings.ToLower(ext)
	for _, allowed := range allowedImageExts {
		if lower == allowed {
			return true
		}
	}
	return false
}
