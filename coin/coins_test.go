package coin

import (
	"testing"

	"github.com/dappr/dappr/dapprtest/assert"
	"github.com/dappr/dappr/errors"
)

func TestMakeCoins(t *testing.T) {
	cases := map[string]struct {
		inputs  []Coin
		want    Coins
		wantErr *errors.Error
	}{
		"empty": {
			inputs: nil,
			want:   nil,
		},
		"sorted and combined": {
			inputs: []Coin{NewCoin(5, "FOO"), NewCoin(1, "ESC"), NewCoin(3, "FOO")},
			want:   Coins{NewCoin(1, "ESC"), NewCoin(8, "FOO")},
		},
		"zero values are dropped": {
			inputs: []Coin{NewCoin(0, "FOO"), NewCoin(1, "ESC")},
			want:   Coins{NewCoin(1, "ESC")},
		},
		"invalid ticker": {
			inputs:  []Coin{NewCoin(1, "foo")},
			wantErr: errors.ErrCurrency,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := CombineCoins(tc.inputs...)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil && !tc.want.Equals(got) {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCoinsSubtract(t *testing.T) {
	wallet, err := CombineCoins(NewCoin(100, "ESC"), NewCoin(5, "FOO"))
	assert.Nil(t, err)

	after, err := wallet.Subtract(NewCoin(40, "ESC"))
	assert.Nil(t, err)
	assert.Equal(t, uint64(60), after.Balance("ESC"))
	// receiver is unchanged
	assert.Equal(t, uint64(100), wallet.Balance("ESC"))

	after, err = after.Subtract(NewCoin(5, "FOO"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(after))
	assert.Equal(t, uint64(0), after.Balance("FOO"))

	_, err = after.Subtract(NewCoin(61, "ESC"))
	assert.IsErr(t, errors.ErrAmount, err)

	_, err = after.Subtract(NewCoin(1, "BAR"))
	assert.IsErr(t, errors.ErrAmount, err)
}

func TestCoinsContains(t *testing.T) {
	wallet := Coins{NewCoin(10, "ESC")}
	cases := map[string]struct {
		c    Coin
		want bool
	}{
		"less":          {c: NewCoin(9, "ESC"), want: true},
		"equal":         {c: NewCoin(10, "ESC"), want: true},
		"more":          {c: NewCoin(11, "ESC"), want: false},
		"other ticker":  {c: NewCoin(1, "FOO"), want: false},
		"zero of other": {c: NewCoin(0, "FOO"), want: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, wallet.Contains(tc.c))
		})
	}
}

func TestCoinsValidate(t *testing.T) {
	assert.Nil(t, Coins{NewCoin(1, "ABC"), NewCoin(1, "DEF")}.Validate())
	assert.IsErr(t, errors.ErrState, Coins{NewCoin(1, "DEF"), NewCoin(1, "ABC")}.Validate())
	assert.IsErr(t, errors.ErrState, Coins{NewCoin(1, "ABC"), NewCoin(2, "ABC")}.Validate())
	assert.IsErr(t, errors.ErrState, Coins{NewCoin(0, "ABC")}.Validate())
}
