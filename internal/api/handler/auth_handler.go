package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grupo8/reparafacil/internal/contract"
	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	embedUser   bool
}

// NewAuthHandler builds the auth endpoints. When embedUser is false the
// signup and login answers carry only the token and the user id, the way
// the hosted backend does.
func NewAuthHandler(authService ports.AuthService, embedUser bool) *AuthHandler {
	return &AuthHandler{authService: authService, embedUser: embedUser}
}

// Signup creates a new account and returns a bearer token.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      contract.SignupRequest  true  "Account details"
// @Success      200   {object}  contract.AuthResponse
// @Failure      400   {object}  contract.ErrorResponse
// @Failure      409   {object}  contract.ErrorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req contract.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	role, _ := domain.ParseRole(req.Role)

	token, user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.authResponse(token, user))
}

// Login authenticates an account and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      contract.LoginRequest  true  "Login credentials"
// @Success      200   {object}  contract.AuthResponse
// @Failure      400   {object}  contract.ErrorResponse
// @Failure      401   {object}  contract.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req contract.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.authResponse(token, user))
}

// Me returns the profile of the authenticated account.
//
// @Summary      Current profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  contract.User
// @Failure      401  {object}  contract.ErrorResponse
// @Failure      404  {object}  contract.ErrorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Profile(c.Request().Context(), caller.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contract.FromUser(user))
}

func (h *AuthHandler) authResponse(token string, user *domain.User) contract.AuthResponse {
	resp := contract.AuthResponse{AuthToken: token, UserID: user.ID}
	if h.embedUser {
		u := contract.FromUser(user)
		resp.User = &u
	}
	return resp
}
