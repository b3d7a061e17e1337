package handlers

import (
	"errors"

	"fleamarket/internal/logger"
	"fleamarket/internal/metrics"
	"fleamarket/internal/service"
	"fleamarket/middleware"
	"fleamarket/models"
	"fleamarket/utils"

	"github.com/gofiber/fiber/v2"
)

const invalidLoginMessage = "Invalid Email or password."

type AuthHandler struct {
	Users   *service.UserService
	Session middleware.Session
	Metrics *metrics.Metrics
	Logger  logger.Logger
}

func NewAuthHandler(users *service.UserService, session middleware.Session, m *metrics.Metrics, log logger.Logger) *AuthHandler {
	return &AuthHandler{Users: users, Session: session, Metrics: m, Logger: log}
}

// NewSession - GET /users/sign_in
func (h *AuthHandler) NewSession(c *fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect("/", fiber.StatusFound)
	}
	return render(c, fiber.StatusOK, "users/sign_in", fiber.Map{"Email": ""})
}

// CreateSession - POST /users/sign_in
func (h *AuthHandler) CreateSession(c *fiber.Ctx) error {
	form := models.LoginForm{
		Email:    c.FormValue("user[email]"),
		Password: c.FormValue("user[password]"),
	}

	user, err := h.Users.Authenticate(c.UserContext(), form.Email, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return render(c, fiber.StatusUnprocessableEntity, "users/sign_in", fiber.Map{
			"Email": form.Email,
			"Alert": invalidLoginMessage,
		})
	}
	if err != nil {
		return err
	}

	if err := h.Session.Start(c, user.ID); err != nil {
		return err
	}
	h.Logger.Infof("User %d signed in", user.ID)
	utils.SetFlash(c, utils.FlashSignedIn)
	return c.Redirect("/", fiber.StatusFound)
}

// DestroySession - POST /users/sign_out
func (h *AuthHandler) DestroySession(c *fiber.Ctx) error {
	h.Session.End(c)
	utils.SetFlash(c, utils.FlashSignedOut)
	return c.Redirect("/", fiber.StatusFound)
}

// NewRegistration - GET /users/sign_up
func (h *AuthHandler) NewRegistration(c *fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect("/", fiber.StatusFound)
	}
	return render(c, fiber.StatusOK, "users/sign_up", fiber.Map{"Form": models.RegistrationForm{}})
}

// CreateRegistration - POST /users
func (h *AuthHandler) CreateRegistration(c *fiber.Ctx) error {
	form := models.RegistrationForm{
		Nickname:             c.FormValue("user[nickname]"),
		Email:                c.FormValue("user[email]"),
		Password:             c.FormValue("user[password]"),
		PasswordConfirmation: c.FormValue("user[password_confirmation]"),
		LastName:             c.FormValue("user[last_name]"),
		FirstName:            c.FormValue("user[first_name]"),
		LastNameKana:         c.FormValue("user[last_name_kana]"),
		FirstNameKana:        c.FormValue("user[first_name_kana]"),
		BirthDate:            c.FormValue("user[birth_date]"),
	}

	user, err := h.Users.Register(c.UserContext(), &form)
	if ve, ok := models.AsValidationError(err); ok {
		h.Metrics.ValidationFailures.WithLabelValues("registration").Inc()
		form.Password, form.PasswordConfirmation = "", ""
		return render(c, fiber.StatusUnprocessableEntity, "users/sign_up", fiber.Map{
			"Form":   form,
			"Errors": ve.Messages,
		})
	}
	if err != nil {
		return err
	}

	if err := h.Session.Start(c, user.ID); err != nil {
		return err
	}
	utils.SetFlash(c, utils.FlashSignedUp)
	return c.Redirect("/", fiber.StatusFound)
}
