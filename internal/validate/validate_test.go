package validate

import (
	"testing"

	"github.com/profwarlock/warlock/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBody = "First Name: Jane\n" +
	"Last Name: Doe\n" +
	"Date of Birth: 15-06-1985 12:10\n" +
	"Place of Birth: San Francisco, California, USA\n"

func TestValidate(t *testing.T) {
	t.Run("valid structured body passes", func(t *testing.T) {
		msg := &domain.InboundMessage{FromEmail: "jane@example.com", Body: validBody}
		assert.Nil(t, Validate(msg))
	})

	t.Run("ping always passes", func(t *testing.T) {
		msg := &domain.InboundMessage{Subject: "PING", Body: "anything"}
		assert.Nil(t, Validate(msg))

		msg = &domain.InboundMessage{Subject: "hello", Body: "ping"}
		assert.Nil(t, Validate(msg))
	})

	t.Run("missing labels reported exactly", func(t *testing.T) {
		msg := &domain.InboundMessage{Body: "First Name: Jane\nDate of Birth: 15-06-1985 12:10\n"}
		err := Validate(msg)
		require.NotNil(t, err)
		assert.Equal(t, domain.ErrMissingUserInfo, err.Kind)
		assert.Equal(t, []string{"Last Name:", "Place of Birth:"}, err.Context["missing_fields"])
	})

	t.Run("all labels missing", func(t *testing.T) {
		msg := &domain.InboundMessage{Body: "hello there"}
		err := Validate(msg)
		require.NotNil(t, err)
		assert.Equal(t, domain.ErrMissingUserInfo, err.Kind)
		assert.Len(t, err.Context["missing_fields"], 4)
	})

	t.Run("malformed date yields invalid_date_format", func(t *testing.T) {
		tests := []string{
			"1985-06-15 12:10", // year first
			"15-06-1985",       // no time
			"invalid-date",
			"15.06.1985 12:10", // wrong separator
		}
		for _, date := range tests {
			body := "First Name: Jane\nLast Name: Doe\nDate of Birth: " + date + "\nPlace of Birth: SF\n"
			err := Validate(&domain.InboundMessage{Body: body})
			require.NotNil(t, err, "date %q should be rejected", date)
			assert.Equal(t, domain.ErrInvalidDateFormat, err.Kind)
		}
	})

	t.Run("slash separated date accepted", func(t *testing.T) {
		body := "First Name: Jane\nLast Name: Doe\nDate of Birth: 15/06/1985 12:10\nPlace of Birth: SF\n"
		assert.Nil(t, Validate(&domain.InboundMessage{Body: body}))
	})
}
