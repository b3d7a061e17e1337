package middleware

import (
	"time"

	"fleamarket/internal/service"
	"fleamarket/models"
	"fleamarket/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	SessionCookie = "_fleamarket_session"
	SignInPath    = "/users/sign_in"

	localsUser  = "current_user"
	localsFlash = "flash"
)

type Session struct {
	Secret []byte
	TTL    time.Duration
	Secure bool
}

// Start issues the session cookie for userID.
func (s Session) Start(c *fiber.Ctx, userID uint) error {
	token, err := utils.GenerateSessionToken(s.Secret, userID, s.TTL)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.TTL),
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (s Session) End(c *fiber.Ctx) {
	utils.ExpireCookie(c, SessionCookie)
}

// LoadSession resolves the signed-in user and the pending flash message.
func LoadSession(users *service.UserService, s Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if f, ok := utils.ConsumeFlash(c); ok {
			c.Locals(localsFlash, f)
		}

		token := c.Cookies(SessionCookie)
		if token == "" {
			return c.Next()
		}
		userID, err := utils.ParseSessionToken(s.Secret, token)
		if err != nil {
			s.End(c)
			return c.Next()
		}
		user, err := users.Find(c.UserContext(), userID)
		if err != nil {
			s.End(c)
			return c.Next()
		}
		c.Locals("user_id", user.ID)
		c.Locals(localsUser, user)
		return c.Next()
	}
}

// RequireLogin sends anonymous visitors to the sign-in form.
func RequireLogin(c *fiber.Ctx) error {
	if CurrentUser(c) == nil {
		utils.SetFlash(c, utils.FlashUnauthenticated)
		return c.Redirect(SignInPath, fiber.StatusFound)
	}
	return c.Next()
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localsUser).(*models.User)
	return user
}

func CurrentFlash(c *fiber.Ctx) *utils.Flash {
	f, ok := c.Locals(localsFlash).(utils.Flash)
	if !ok {
		return nil
	}
	return &f
}
