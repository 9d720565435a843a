package handlers

import (
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/bookxchange/backend/internal/mailer"
	"github.com/bookxchange/backend/internal/models"
	"github.com/bookxchange/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHandler handles the OTP signup/login flows and session issuance
type AuthHandler struct {
	userRepository    repositories.UserRepository
	sessionRepository repositories.SessionRepository
	locations         repositories.LocationRepository
	mail              mailer.Mailer
	jwtSecret         string
	jwtExpiry         time.Duration
	devMode           bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, locations repositories.LocationRepository, mail mailer.Mailer, jwtSecret string, jwtExpiry time.Duration, devMode bool) *AuthHandler {
	return &AuthHandler{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		locations:         locations,
		mail:              mail,
		jwtSecret:         jwtSecret,
		jwtExpiry:         jwtExpiry,
		devMode:           devMode,
	}
}

// RegisterAuthRoutes registers the unauthenticated auth routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signup/verify", h.SignupVerify)
	g.POST("/login", h.Login)
	g.POST("/login/verify", h.LoginVerify)
}

// RegisterSessionRoutes registers the authenticated session routes
func (h *AuthHandler) RegisterSessionRoutes(g *echo.Group) {
	g.POST("/logout", h.Logout)
}

// generateOTP returns a 6-digit one-time passcode.
func generateOTP() int {
	return 100000 + rand.Intn(900000)
}

// createToken signs a session JWT for the given user.
func (h *AuthHandler) createToken(userID primitive.ObjectID) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.jwtExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

// deliverOTP emails the passcode and responds with sentMessage, or returns
// the passcode in the response body when running in development.
func (h *AuthHandler) deliverOTP(c echo.Context, email, name string, otp int, sentMessage string) error {
	if h.devMode {
		return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": otp})
	}
	if err := h.mail.SendOTP(c.Request().Context(), email, name, otp); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Error sending email")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": sentMessage})
}

// Signup registers a new inactive account and sends its verification OTP
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	inService, err := h.locations.HasZipcode(c.Request().Context(), req.Zipcode)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !inService {
		return echo.NewHTTPError(http.StatusBadRequest, "We do not operate in your location!")
	}

	otp := generateOTP()
	user := &models.User{
		Name:    req.Name,
		Email:   strings.ToLower(req.Email),
		Zipcode: req.Zipcode,
		Active:  false,
		OTP:     &otp,
	}

	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		if err == repositories.ErrEmailExists {
			return echo.NewHTTPError(http.StatusConflict, "Email already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return h.deliverOTP(c, user.Email, user.Name, otp, "Email has been sent")
}

// SignupVerify activates an account when the signup OTP matches, and logs
// the user in
func (h *AuthHandler) SignupVerify(c echo.Context) error {
	var req models.VerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), strings.ToLower(req.Email))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Email or otp is wrong")
	}
	if user.Active {
		return echo.NewHTTPError(http.StatusForbidden, "User email has already been verified")
	}
	if user.OTP == nil || *user.OTP != req.OTP {
		return echo.NewHTTPError(http.StatusUnauthorized, "Email or otp is wrong")
	}

	if err := h.userRepository.ActivateUser(c.Request().Context(), user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.issueSession(c, user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": "Email verified"})
}

// Login sends a fresh OTP to an already verified account
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	email := strings.ToLower(req.Email)
	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Email not registered")
	}
	if !user.Active {
		return echo.NewHTTPError(http.StatusForbidden, "Email not verified")
	}

	otp := generateOTP()
	if err := h.userRepository.SetOTPByEmail(c.Request().Context(), email, otp); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return h.deliverOTP(c, user.Email, user.Name, otp, "OTP has been sent to the mail")
}

// LoginVerify exchanges a login OTP for a session
func (h *AuthHandler) LoginVerify(c echo.Context) error {
	var req models.VerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), strings.ToLower(req.Email))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Email or otp is wrong")
	}
	if !user.Active {
		return echo.NewHTTPError(http.StatusForbidden, "Email not verified")
	}
	if user.OTP == nil || *user.OTP != req.OTP {
		return echo.NewHTTPError(http.StatusUnauthorized, "Email or otp is wrong")
	}

	if err := h.userRepository.ClearOTP(c.Request().Context(), user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.issueSession(c, user.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": "Login success"})
}

// Logout deletes the current session record
func (h *AuthHandler) Logout(c echo.Context) error {
	token := getSessionTokenFromContext(c)
	if err := h.sessionRepository.DeleteSessionByToken(c.Request().Context(), token); err != nil && err != repositories.ErrSessionNotFound {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "data": "Logout success"})
}

// issueSession signs a JWT, persists the session record and sets the cookie.
func (h *AuthHandler) issueSession(c echo.Context, userID primitive.ObjectID) error {
	token, err := h.createToken(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.sessionRepository.CreateSession(c.Request().Context(), userID, token); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	c.SetCookie(&http.Cookie{
		Name:     "jwt_token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.jwtExpiry),
		HttpOnly: true,
	})
	c.Response().Header().Set("X-Session-Token", token)
	return nil
}
