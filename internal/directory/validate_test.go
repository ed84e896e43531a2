package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() Submission {
	return Submission{
		Name:     "Jo",
		Email:    "a@b.com",
		Venue:    "Bar",
		Position: "Server",
		Venmo:    "@jo",
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, Validate(validSubmission()))
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Submission)
		want   string
	}{
		{
			name:   "missing name",
			mutate: func(s *Submission) { s.Name = "" },
			want:   "Please provide your name",
		},
		{
			name:   "missing name and email",
			mutate: func(s *Submission) { s.Name = ""; s.Email = "" },
			want:   "Please provide your name, and email",
		},
		{
			name:   "missing venue and position",
			mutate: func(s *Submission) { s.Venue = ""; s.Position = "" },
			want:   "Please provide your venue, and position",
		},
		{
			name: "everything missing",
			mutate: func(s *Submission) {
				*s = Submission{}
			},
			want: "Please provide your name, email, venue, position, and at least one payment method",
		},
		{
			name:   "invalid email",
			mutate: func(s *Submission) { s.Email = "not-an-email" },
			want:   "Please provide your a valid email",
		},
		{
			name:   "no payment method",
			mutate: func(s *Submission) { s.Venmo = "" },
			want:   "Please provide at least one payment method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			tt.mutate(&sub)

			err := Validate(sub)
			require.Error(t, err)
			formErr, ok := AsFormError(err)
			require.True(t, ok)
			require.Len(t, formErr.Messages, 1)
			assert.Equal(t, tt.want, formErr.Messages[0])
		})
	}
}

func TestValidate_NoPaymentMessageMentionsPaymentMethod(t *testing.T) {
	sub := validSubmission()
	sub.CashApp, sub.Venmo, sub.PayPal = "", "", ""

	err := Validate(sub)
	formErr, ok := AsFormError(err)
	require.True(t, ok)
	assert.Contains(t, formErr.Messages[0], "payment method")
}

func TestValidate_PhotoExtensions(t *testing.T) {
	for _, filename := range []string{"me.jpg", "me.JPG", "me.jpeg", "me.png", "me.GIF"} {
		sub := validSubmission()
		sub.PhotoFilename = filename
		assert.NoError(t, Validate(sub), filename)
	}

	tests := []struct {
		filename string
		want     string
	}{
		{"me.bmp", "Unsupported photo format: .bmp"},
		{"me.TIFF", "Unsupported photo format: .TIFF"},
		{"me", "Unsupported photo format: "},
	}
	for _, tt := range tests {
		sub := validSubmission()
		sub.PhotoFilename = tt.filename

		err := Validate(sub)
		require.Error(t, err, tt.filename)
		formErr, ok := AsFormError(err)
		require.True(t, ok)
		assert.Equal(t, []string{tt.want}, formErr.Messages)
	}
}

func TestValidate_AccumulatesAllFailures(t *testing.T) {
	sub := validSubmission()
	sub.Name = ""
	sub.PhotoFilename = "me.webp"

	err := Validate(sub)
	require.Error(t, err)
	formErr, ok := AsFormError(err)
	require.True(t, ok)
	assert.Equal(t, []string{
		"Please provide your name",
		"Unsupported photo format: .webp",
	}, formErr.Messages)
}
