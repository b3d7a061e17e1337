package server

import (
	"net/http"
	"net/url"
	"testing"

	"fleamarket/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignIn(t *testing.T) {
	a := newTestApp(t)
	user := a.createUser(t, "taro")

	t.Run("wrong password re-renders the form", func(t *testing.T) {
		b := a.browser(t)
		resp := b.signIn(user.Email, "wrong1")

		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
		doc := document(t, resp)
		assert.Contains(t, doc.Text(), signInHeading)
		assert.Contains(t, doc.Find(".error-alert").Text(), "Invalid Email or password.")
		assert.Equal(t, user.Email, doc.Find("#user_email").AttrOr("value", ""))
	})

	t.Run("valid credentials sign in and out", func(t *testing.T) {
		b := a.browser(t)
		resp := b.signIn(user.Email, testPassword)
		require.Equal(t, fiber.StatusFound, resp.StatusCode)

		_, doc := b.follow(resp)
		assert.Contains(t, doc.Find(".flash").Text(), "Signed in successfully.")
		assert.Equal(t, "taro", doc.Find(".user-nickname").Text())

		_, doc = b.visit("/users/sign_in")
		assert.Equal(t, "/", b.path, "signed in users skip the form")

		resp = b.post("/users/sign_out", url.Values{"authenticity_token": {csrfToken(doc)}})
		require.Equal(t, fiber.StatusFound, resp.StatusCode)
		_, doc = b.follow(resp)
		assert.Contains(t, doc.Find(".flash").Text(), "Signed out successfully.")
		assert.Equal(t, 0, doc.Find(".user-nickname").Length())
	})

	t.Run("tampered session cookie is ignored", func(t *testing.T) {
		b := a.browser(t)
		b.signInAs(user)

		u, err := url.Parse(baseURL)
		require.NoError(t, err)
		for _, c := range b.jar.Cookies(u) {
			if c.Name == middleware.SessionCookie {
				c.Value += "x"
				b.jar.SetCookies(u, []*http.Cookie{c})
			}
		}
		_, doc := b.visit("/items/new")
		assertSignInPage(t, b, doc)
	})

	t.Run("missing csrf token is forbidden", func(t *testing.T) {
		b := a.browser(t)
		resp := b.post("/users/sign_in", url.Values{
			"user[email]":    {user.Email},
			"user[password]": {testPassword},
		})
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})
}

func TestSignUp(t *testing.T) {
	a := newTestApp(t)

	t.Run("invalid registration keeps the input", func(t *testing.T) {
		b := a.browser(t)
		_, doc := b.visit("/users/sign_up")

		resp := b.post("/users", url.Values{
			"authenticity_token":          {csrfToken(doc)},
			"user[nickname]":              {"hanako"},
			"user[email]":                 {"hanako@example.com"},
			"user[password]":              {"abcdef"},
			"user[password_confirmation]": {"abcdef"},
			"user[last_name]":             {"yamada"},
			"user[first_name]":            {"花子"},
			"user[last_name_kana]":        {"ヤマダ"},
			"user[first_name_kana]":       {"ハナコ"},
			"user[birth_date]":            {"1992-02-02"},
		})

		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
		doc = document(t, resp)
		alert := doc.Find("div.error-alert").Text()
		assert.Contains(t, alert, "Password is invalid. Include both letters and numbers")
		assert.Contains(t, alert, "Last name is invalid. Input full-width characters")
		assert.Equal(t, "hanako", doc.Find("#user_nickname").AttrOr("value", ""))
		assert.Equal(t, "", doc.Find("#user_password").AttrOr("value", ""))
	})

	t.Run("valid registration signs the user in", func(t *testing.T) {
		b := a.browser(t)
		_, doc := b.visit("/users/sign_up")

		resp := b.post("/users", url.Values{
			"authenticity_token":          {csrfToken(doc)},
			"user[nickname]":              {"hanako"},
			"user[email]":                 {"hanako@example.com"},
			"user[password]":              {"abc123"},
			"user[password_confirmation]": {"abc123"},
			"user[last_name]":             {"山田"},
			"user[first_name]":            {"花子"},
			"user[last_name_kana]":        {"ヤマダ"},
			"user[first_name_kana]":       {"ハナコ"},
			"user[birth_date]":            {"1992-02-02"},
		})
		require.Equal(t, fiber.StatusFound, resp.StatusCode)

		_, doc = b.follow(resp)
		assert.Contains(t, doc.Find(".flash").Text(), "Welcome! You have signed up successfully.")
		assert.Equal(t, "hanako", doc.Find(".user-nickname").Text())
	})
}
