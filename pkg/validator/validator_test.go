package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codeField struct {
	Code string `validate:"refcode"`
}

type sizeField struct {
	Size string `validate:"tshirt"`
}

type ynField struct {
	Value string `validate:"yn"`
}

func TestReferenceCodeTag(t *testing.T) {
	tests := []struct {
		code string
		ok   bool
	}{
		{"ABC123", true},
		{"abcdef", true},
		{"", false},
		{"ABC12", false},
		{"ABC1234", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := Validate(context.Background(), codeField{Code: tt.code})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, ErrBadReferenceCode, err.Error())
			}
		})
	}
}

func TestTshirtTag(t *testing.T) {
	tests := []struct {
		size string
		ok   bool
	}{
		{"S", true},
		{"M", true},
		{"L", true},
		{"XS", true},
		{"XL", true},
		{"XXL", true},
		{"XXXL", true},
		{"xxl", true},
		{"", false},
		{"XM", false},
		{"SM", false},
		{"XXM", false},
	}

	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			err := Validate(context.Background(), sizeField{Size: tt.size})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, ErrBadTshirtSize, err.Error())
			}
		})
	}
}

func TestYesNoTag(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"Y", true},
		{"N", true},
		{"y", true},
		{"n", true},
		{"", true}, // optional field
		{"maybe", false},
		{"YN", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := Validate(context.Background(), ynField{Value: tt.value})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, ErrBadYesNo, err.Error())
			}
		})
	}
}
