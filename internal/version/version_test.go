package version

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain release", input: "1.2.3"},
		{name: "leading v", input: "v1.2.3"},
		{name: "prerelease", input: "1.0.0-rc.1"},
		{name: "build metadata", input: "1.0.0+build.5"},
		{name: "missing patch", input: "1.2", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "latest", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidVersion))
				return
			}
			require.NoError(t, err)
			assert.True(t, Valid(tt.input))
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want Ordering
	}{
		{"1.0.0", "1.0.1", Less},
		{"1.10.0", "1.9.0", Greater},
		{"2.0.0", "10.0.0", Less},
		{"1.0.0-alpha", "1.0.0", Less},
		{"1.0.0-alpha", "1.0.0-alpha.1", Less},
		{"1.0.0-beta.2", "1.0.0-beta.11", Less},
		{"1.0.0+a", "1.0.0+b", Equal},
		{"v3.1.4", "3.1.4", Equal},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			reverse, err := Compare(tt.b, tt.a)
			require.NoError(t, err)
			assert.Equal(t, -tt.want, reverse, "antisymmetry")
		})
	}
}

func TestCompareInvalid(t *testing.T) {
	_, err := Compare("1.0.0", "not-a-version")
	require.ErrorIs(t, err, ErrInvalidVersion)

	_, err = Compare("1.0", "1.0.0")
	require.ErrorIs(t, err, ErrInvalidVersion)
}

func TestCompareTransitive(t *testing.T) {
	ordered := []string{"0.9.9", "1.0.0-alpha", "1.0.0-alpha.1", "1.0.0-beta", "1.0.0", "1.0.1", "1.2.0", "2.0.0"}
	for i := range ordered {
		for j := range ordered {
			got, err := Compare(ordered[i], ordered[j])
			require.NoError(t, err)
			switch {
			case i < j:
				assert.Equal(t, Less, got, "%s < %s", ordered[i], ordered[j])
			case i > j:
				assert.Equal(t, Greater, got, "%s > %s", ordered[i], ordered[j])
			default:
				assert.Equal(t, Equal, got)
			}
		}
	}
}

func TestSelectLatest(t *testing.T) {
	tests := []struct {
		name     string
		versions []string
		want     string
		wantOK   bool
	}{
		{name: "empty", versions: nil, wantOK: false},
		{name: "single", versions: []string{"1.2.3"}, want: "1.2.3", wantOK: true},
		{name: "numeric not lexical", versions: []string{"1.9.0", "1.10.0", "1.2.0"}, want: "1.10.0", wantOK: true},
		{name: "release beats prerelease", versions: []string{"2.0.0-rc.1", "2.0.0", "1.9.9"}, want: "2.0.0", wantOK: true},
		{name: "skips invalid", versions: []string{"bogus", "0.1.0"}, want: "0.1.0", wantOK: true},
		{name: "only invalid", versions: []string{"bogus", "1.0"}, wantOK: false},
		{name: "first equal wins", versions: []string{"1.0.0+b", "1.0.0+a"}, want: "1.0.0+b", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectLatest(tt.versions)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderingString(t *testing.T) {
	assert.Equal(t, "less", Less.String())
	assert.Equal(t, "equal", Equal.String())
	assert.Equal(t, "greater", Greater.String())
}
