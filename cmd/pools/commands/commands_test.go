package commands

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/MKhiriev/ubuntu-pools/internal/app"
	"github.com/MKhiriev/ubuntu-pools/internal/backend"
	"github.com/MKhiriev/ubuntu-pools/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	readPassword = func(int) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("no more input")
		}
		next := answers[0]
		answers = answers[1:]
		return []byte(next), nil
	}
}

func TestVersionCmd_RunsWithoutRuntime(t *testing.T) {
	SetBuildInfo("v1.2.0", "", "abc123")
	t.Cleanup(func() { buildVersion, buildDate, buildCommit = "N/A", "N/A", "N/A" })

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Nil(t, rt)
	assert.Equal(t, "Build version: v1.2.0\nBuild date: N/A\nBuild commit: abc123\n", out.String())
}

func TestPromptLine(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  thandi@example.com \nrest"))

	got, err := promptLine(r, &out, "E-mail")
	require.NoError(t, err)
	assert.Equal(t, "thandi@example.com", got)
	assert.Equal(t, "E-mail: ", out.String())

	got, err = promptLine(r, &out, "Name")
	require.NoError(t, err)
	assert.Equal(t, "rest", got)

	_, err = promptLine(r, &out, "Name")
	assert.Error(t, err)
}

func TestValueOrPrompt_PrefersFlag(t *testing.T) {
	var out bytes.Buffer
	got, err := valueOrPrompt(" given ", bufio.NewReader(strings.NewReader("typed\n")), &out, "E-mail")
	require.NoError(t, err)
	assert.Equal(t, "given", got)
	assert.Empty(t, out.String())
}

func TestPromptNewPassword(t *testing.T) {
	var out bytes.Buffer

	stubPasswords(t, "s3cret", "s3cret")
	got, err := promptNewPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)
	assert.Contains(t, out.String(), "Repeat password: ")

	stubPasswords(t, "s3cret", "other")
	_, err = promptNewPassword(&out)
	assert.ErrorIs(t, err, errPasswordMismatch)
}

func TestPrintProfile(t *testing.T) {
	var out bytes.Buffer
	printProfile(&out, models.AuthSnapshot{})
	assert.Equal(t, app.MsgNotSignedIn+"\n", out.String())

	out.Reset()
	phone := "+27825559876"
	printProfile(&out, models.AuthSnapshot{
		Identity: &models.SessionIdentity{ID: "user-1", Email: "thandi@example.com"},
		User: &models.User{
			ID:            "user-1",
			Email:         "thandi@example.com",
			Name:          "Thandi",
			Phone:         &phone,
			WalletBalance: 100,
			TotalSavings:  2500.75,
			TrustScore:    models.TrustScore{Score: models.DefaultTrustScoreValue, Rating: models.DefaultTrustRating},
		},
	})
	text := out.String()
	assert.Contains(t, text, "Name:        Thandi")
	assert.Contains(t, text, "Savings:     R 2500.75")
	assert.Contains(t, text, "Trust:       500 (fair)")
	assert.Contains(t, text, "Last login:  -")

	out.Reset()
	printProfile(&out, models.AuthSnapshot{Identity: &models.SessionIdentity{ID: "user-1", Email: "thandi@example.com"}})
	assert.Contains(t, out.String(), "Profile not loaded.")
}

func TestPrintRedirect(t *testing.T) {
	s := models.Session{User: models.SessionIdentity{Email: "thandi@example.com"}}

	tests := []struct {
		kind string
		want string
	}{
		{kind: backend.RedirectTypeRecovery, want: "pools update-password"},
		{kind: backend.RedirectTypeSignup, want: "E-mail thandi@example.com confirmed."},
		{kind: backend.RedirectTypeMagic, want: "Signed in as thandi@example.com."},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			var out bytes.Buffer
			printRedirect(&out, s, tt.kind)
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestWritePools(t *testing.T) {
	var out bytes.Buffer
	writePools(&out, nil)
	assert.Equal(t, "You are not a member of any pool yet.\n", out.String())

	out.Reset()
	limit := 10
	writePools(&out, []models.Pool{{
		ID:                   "p1",
		Name:                 "Soweto Savers",
		Type:                 models.PoolTypeStokvel,
		ContributionAmount:   500,
		ContributionSchedule: "monthly",
		TotalMembers:         4,
		MaxMembers:           &limit,
		Status:               models.PoolStatusActive,
	}})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Soweto Savers")
	assert.Contains(t, lines[1], "R 500.00 monthly")
	assert.Contains(t, lines[1], "4/10")
}
