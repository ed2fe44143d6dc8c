package profile_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/elite-connect/internal/db"
	svcErr "github.com/oggyb/elite-connect/internal/errors"
	"github.com/oggyb/elite-connect/internal/service/profile"
	"github.com/oggyb/elite-connect/internal/testutil"
)

func images(n int) *[]string {
	out := make([]string, n)
	for i := range out {
		out[i] = "https://cdn.example/img.jpg"
	}
	return &out
}

func TestValidate(t *testing.T) {
	valid := func() profile.UpsertRequest {
		return profile.UpsertRequest{Name: " Ana ", Age: 30, Gender: "Female"}
	}

	cases := map[string]func(r *profile.UpsertRequest){
		"missing name": func(r *profile.UpsertRequest) { r.Name = "  " },
		"missing age":  func(r *profile.UpsertRequest) { r.Age = 0 },
		"too young":    func(r *profile.UpsertRequest) { r.Age = 17 },
		"too old":      func(r *profile.UpsertRequest) { r.Age = 101 },
		"bad gender":   func(r *profile.UpsertRequest) { r.Gender = "robot" },
		"long bio":     func(r *profile.UpsertRequest) { r.Bio = strings.Repeat("x", 501) },
		"long name":    func(r *profile.UpsertRequest) { r.Name = strings.Repeat("x", 101) },
		"seven images": func(r *profile.UpsertRequest) { r.Images = images(7) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := valid()
			mutate(&r)
			assert.True(t, svcErr.IsKind(r.Validate(), svcErr.KindValidation))
		})
	}

	r := valid()
	r.Age = 18
	r.Images = images(6)
	require.NoError(t, r.Validate())
	assert.Equal(t, "Ana", r.Name)
	assert.Equal(t, "female", r.Gender)

	r.Age = 100
	assert.NoError(t, r.Validate())
}

func TestCreateOrUpdate(t *testing.T) {
	ctx := context.Background()
	a := testutil.NewAppContext(t)
	svc := profile.NewProfileService(a)
	u := testutil.CreateUser(t, a.DB, 1)

	created, err := svc.CreateOrUpdate(ctx, u.ID, profile.UpsertRequest{
		Name: "Ana", Age: 30, Gender: "female", Bio: "hi",
		Interests: []string{"art"}, Location: "Lisbon", Images: images(2),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", created.Name)

	var stored db.User
	require.NoError(t, a.DB.First(&stored, u.ID).Error)
	assert.True(t, stored.ProfileCompleted)

	updated, err := svc.CreateOrUpdate(ctx, u.ID, profile.UpsertRequest{Name: "Ana Maria", Age: 31, Gender: "other"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", got.Name)
	assert.Equal(t, 31, got.Age)
	assert.Equal(t, "other", got.Gender)
	assert.Equal(t, "", got.Bio)
	assert.Empty(t, got.Interests)
	assert.Equal(t, "", got.Location)
	assert.Len(t, got.Images, 2, "images survive an update that omits them")

	var count int64
	require.NoError(t, a.DB.Model(&db.Profile{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateRejectsInvalidWithoutWriting(t *testing.T) {
	ctx := context.Background()
	a := testutil.NewAppContext(t)
	svc := profile.NewProfileService(a)
	u := testutil.CreateUser(t, a.DB, 1)

	_, err := svc.CreateOrUpdate(ctx, u.ID, profile.UpsertRequest{Name: "Kid", Age: 17, Gender: "male"})
	assert.True(t, svcErr.IsKind(err, svcErr.KindValidation))

	_, err = svc.Get(ctx, u.ID)
	assert.True(t, svcErr.IsKind(err, svcErr.KindNotFound))

	var stored db.User
	require.NoError(t, a.DB.First(&stored, u.ID).Error)
	assert.False(t, stored.ProfileCompleted)
}
