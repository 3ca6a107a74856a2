package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultList(t *testing.T) {
	list, err := Default()
	require.NoError(t, err)
	assert.Equal(t, []string{"meow", "unreal", "perchance", "baby", "I love you", "strawberries", "waffles"}, list)
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	list, err := Load("")
	require.NoError(t, err)
	assert.Len(t, list, 7)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("# animals\n  cat \n\ndog\nhot dog\n"), 0o644))

	list, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "hot dog"}, list)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		list []string
		want error
	}{
		{"ok", []string{"cat", "I love you"}, nil},
		{"empty", nil, ErrEmpty},
		{"one letter", []string{"a"}, ErrTooShort},
		{"spaces only", []string{"cat", "   "}, ErrTooShort},
		{"digits", []string{"r2d2"}, ErrBadLetter},
		{"punctuation", []string{"don't"}, ErrBadLetter},
		{"duplicate after normalizing", []string{"hot dog", "HOTDOG"}, ErrDuplicate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.list)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
