package boringservice_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	boringservice "github.com/LeadSimple/boring-service"
)

func TestErrorTaxonomy_MatchesBothRoots(t *testing.T) {
	t.Parallel()

	taxonomy := []error{
		&boringservice.UnknownParameterError{Service: "s", Name: "p"},
		&boringservice.InvalidValueError{Service: "s", Parameter: "p", Acceptance: "number", Got: "string"},
		&boringservice.MissingParametersError{Service: "s", Missing: []string{"p"}},
		&boringservice.NotImplementedError{Service: "s"},
		&boringservice.DeclarationError{Service: "s", Detail: "bad option"},
	}

	for _, err := range taxonomy {
		err := err
		t.Run(fmt.Sprintf("%T", err), func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, err, boringservice.ErrContract)
			assert.ErrorIs(t, err, boringservice.ErrInvalidArgument)
		})
	}
}

func TestErrorTaxonomy_WrappedErrorsStillMatch(t *testing.T) {
	t.Parallel()

	_, err := newAdder().Call(context.Background(), nil)
	require.Error(t, err)

	wrapped := fmt.Errorf("running adder: %w", err)
	assert.ErrorIs(t, wrapped, boringservice.ErrContract)

	var missing *boringservice.MissingParametersError
	assert.ErrorAs(t, wrapped, &missing)
}

func TestErrorTaxonomy_NarrowKindsAreDistinct(t *testing.T) {
	t.Parallel()

	_, err := newAdder().Call(context.Background(), map[string]cty.Value{
		"start_number": cty.StringVal("1"),
	})
	require.Error(t, err)

	var invalid *boringservice.InvalidValueError
	assert.True(t, errors.As(err, &invalid))

	var unknown *boringservice.UnknownParameterError
	assert.False(t, errors.As(err, &unknown),
		"an invalid-value error must not match the unknown-parameter kind")
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		err  error
		want string
	}{
		{
			err:  &boringservice.UnknownParameterError{Service: "adder", Name: "start"},
			want: `service "adder": unknown parameter "start"`,
		},
		{
			err:  &boringservice.InvalidValueError{Service: "adder", Parameter: "n", Acceptance: "number", Got: "string"},
			want: `service "adder": invalid value for parameter "n": expected number, got string`,
		},
		{
			err:  &boringservice.MissingParametersError{Service: "adder", Missing: []string{"a", "b"}},
			want: `service "adder": missing required parameters: a, b`,
		},
		{
			err:  &boringservice.NotImplementedError{Service: "adder"},
			want: `service "adder": body is not implemented`,
		},
		{
			err:  &boringservice.DeclarationError{Service: "adder", Parameter: "n", Detail: "unrecognized option"},
			want: `invalid declaration in service "adder", parameter "n": unrecognized option`,
		},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, tc.err.Error())
	}
}
