package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flashbackfa/entreprise-api/config"
	domainauth "github.com/flashbackfa/entreprise-api/internal/domain/auth"
)

func TestBuildAuthService_RequiresRedis(t *testing.T) {
	svc := BuildAuthService(AuthConfig{
		Auth: config.AuthConfig{Mode: config.AuthModeMock},
	})
	assert.Nil(t, svc)
}

func TestStaticRoleResolver(t *testing.T) {
	r := staticRoleResolver{role: domainauth.RolePatron}
	resolved := r.Resolve(context.Background(), domainauth.Identity{
		UserID:   "u1",
		Username: "dev",
	})

	assert.Equal(t, domainauth.RolePatron, resolved.Role)
	assert.Equal(t, domainauth.RolePatron.Level(), resolved.RoleLevel)
	assert.Equal(t, "u1", resolved.UserID)
}

func TestStaticRoleResolver_UnknownRoleDegrades(t *testing.T) {
	r := staticRoleResolver{role: domainauth.ParseRole("made-up")}
	resolved := r.Resolve(context.Background(), domainauth.Identity{UserID: "u1"})
	assert.Equal(t, domainauth.RoleEmployee, resolved.Role)
}

func TestCallbackURL(t *testing.T) {
	assert.Equal(t, "https://app.example.com/auth/callback", callbackURL("https://app.example.com/"))
	assert.Equal(t, "http://localhost:8080/auth/callback", callbackURL(""))
}
