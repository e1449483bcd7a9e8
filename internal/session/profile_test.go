package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMergeProfile(t *testing.T) {
	base := &UserProfile{
		ID:        "42",
		Email:     "a@b.c",
		FirstName: "Old",
		LastName:  "Name",
		Avatar:    "avatar-default",
		Role:      "consumer",
	}

	t.Run("partial overlay keeps untouched fields", func(t *testing.T) {
		merged := MergeProfile(base, &UserProfile{FirstName: "A"})
		want := &UserProfile{
			ID: "42", Email: "a@b.c", FirstName: "A", LastName: "Name",
			Avatar: "avatar-default", Role: "consumer",
		}
		if diff := cmp.Diff(want, merged); diff != "" {
			t.Errorf("merge mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("does not mutate base", func(t *testing.T) {
		_ = MergeProfile(base, &UserProfile{FirstName: "Changed"})
		assert.Equal(t, "Old", base.FirstName)
	})

	t.Run("boolean flags are never rescinded by a partial response", func(t *testing.T) {
		verified := &UserProfile{ID: "42", EmailVerified: true, HasCompletedOnboarding: true}
		merged := MergeProfile(verified, &UserProfile{FirstName: "A"})
		assert.True(t, merged.EmailVerified)
		assert.True(t, merged.HasCompletedOnboarding)
	})

	t.Run("nil base takes overlay", func(t *testing.T) {
		overlay := &UserProfile{ID: "7"}
		merged := MergeProfile(nil, overlay)
		assert.Equal(t, "7", merged.ID)
		assert.NotSame(t, overlay, merged)
	})

	t.Run("nil overlay copies base", func(t *testing.T) {
		merged := MergeProfile(base, nil)
		assert.Equal(t, base, merged)
		assert.NotSame(t, base, merged)
	})

	t.Run("both nil", func(t *testing.T) {
		assert.Nil(t, MergeProfile(nil, nil))
	})
}

func TestProfileEncodeDecode(t *testing.T) {
	user := &UserProfile{ID: "42", Email: "a@b.c", EmailVerified: true}
	raw, err := encodeProfile(user)
	assert.NoError(t, err)

	decoded, err := decodeProfile(raw)
	assert.NoError(t, err)
	assert.Equal(t, user, decoded)

	decoded, err = decodeProfile("")
	assert.NoError(t, err)
	assert.Nil(t, decoded)

	_, err = decodeProfile("{not json")
	assert.Error(t, err)
}
