package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const FlashCookie = "_flash"

// Flash codes. The cookie only carries the code; the text lives here.
const (
	FlashUnauthenticated = "unauthenticated"
	FlashSignedIn        = "signed_in"
	FlashSignedOut       = "signed_out"
	FlashSignedUp        = "signed_up"
	FlashItemDeleted     = "item_deleted"
)

type Flash struct {
	Kind    string // "notice" or "alert"
	Message string
}

var flashes = map[string]Flash{
	FlashUnauthenticated: {Kind: "alert", Message: "You need to sign in or sign up before continuing."},
	FlashSignedIn:        {Kind: "notice", Message: "Signed in successfully."},
	FlashSignedOut:       {Kind: "notice", Message: "Signed out successfully."},
	FlashSignedUp:        {Kind: "notice", Message: "Welcome! You have signed up successfully."},
	FlashItemDeleted:     {Kind: "notice", Message: "商品を削除しました"},
}

// SetFlash stores code for the next request.
func SetFlash(c *fiber.Ctx, code string) {
	c.Cookie(&fiber.Cookie{
		Name:     FlashCookie,
		Value:    code,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(time.Minute),
	})
}

// ConsumeFlash reads and clears the pending flash, if any.
func ConsumeFlash(c *fiber.Ctx) (Flash, bool) {
	code := c.Cookies(FlashCookie)
	if code == "" {
		return Flash{}, false
	}
	ExpireCookie(c, FlashCookie)
	f, ok := flashes[code]
	return f, ok
}

// ExpireCookie removes a root path cookie from the client. fiber's ClearCookie
// omits the path, which browsers treat as a different cookie.
func ExpireCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Unix(0, 0),
	})
}
