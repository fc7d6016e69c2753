package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/symptomai/symptomai-be/internal/db"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUserInfo represents user data from Google OAuth
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// OAuthHandler handles OAuth authentication flows. The web redirect flow
// serves browser logins; the token flow serves the mobile app, which signs
// in natively and posts the resulting Google ID token.
type OAuthHandler struct {
	db        *db.DB
	auth      *AuthHandler
	google    *oauth2.Config
	tokenInfo string
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(database *db.DB, auth *AuthHandler) *OAuthHandler {
	return &OAuthHandler{
		db:   database,
		auth: auth,
		google: &oauth2.Config{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		tokenInfo: "https://oauth2.googleapis.com/tokeninfo",
	}
}

// GoogleLogin initiates the Google OAuth redirect flow
func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	state := generateRandomState()

	// State cookie guards the callback against CSRF.
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)

	url := h.google.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback handles the Google OAuth callback
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	stateCookie, err := c.Cookie("oauth_state")
	if err != nil || c.Query("state") != stateCookie {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid state parameter"})
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)

	token, err := h.google.Exchange(context.Background(), c.Query("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exchange token"})
		return
	}

	userInfo, err := h.getGoogleUserInfo(token.AccessToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user info"})
		return
	}

	h.finishLogin(c, userInfo)
}

// GoogleTokenAuth handles Google ID token authentication from the mobile
// app: the app signs in with Google natively and posts the ID token here.
// POST /api/auth/google/token
func (h *OAuthHandler) GoogleTokenAuth(c *gin.Context) {
	var req struct {
		IDToken string `json:"id_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID token is required"})
		return
	}

	userInfo, err := h.verifyGoogleIDToken(req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid ID token"})
		return
	}

	h.finishLogin(c, userInfo)
}

// finishLogin finds or creates the user and issues a JWT.
func (h *OAuthHandler) finishLogin(c *gin.Context, userInfo *GoogleUserInfo) {
	if !userInfo.VerifiedEmail {
		c.JSON(http.StatusForbidden, gin.H{"error": "Email not verified with Google"})
		return
	}

	user, err := h.findOrCreateUserByEmail(c.Request.Context(), userInfo.Email, userInfo.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate user"})
		return
	}

	jwtToken, err := h.auth.generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: jwtToken,
		User:  userToUserInfo(user),
	})
}

// getGoogleUserInfo fetches user information for the web flow
func (h *OAuthHandler) getGoogleUserInfo(accessToken string) (*GoogleUserInfo, error) {
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google API returned status %d", resp.StatusCode)
	}

	return decodeGoogleUserInfo(resp.Body)
}

// verifyGoogleIDToken validates an ID token against Google's tokeninfo
// endpoint and extracts the user identity from it.
func (h *OAuthHandler) verifyGoogleIDToken(idToken string) (*GoogleUserInfo, error) {
	resp, err := http.Get(h.tokenInfo + "?id_token=" + idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token verification returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// tokeninfo reports email_verified as the string "true"/"false".
	var claims struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Name          string `json:"name"`
		Aud           string `json:"aud"`
	}
	if err := json.Unmarshal(body, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse token info: %w", err)
	}

	if clientID := h.google.ClientID; clientID != "" && claims.Aud != clientID {
		return nil, errors.New("token audience mismatch")
	}

	return &GoogleUserInfo{
		ID:            claims.Sub,
		Email:         claims.Email,
		VerifiedEmail: claims.EmailVerified == "true",
		Name:          claims.Name,
	}, nil
}

func decodeGoogleUserInfo(r io.Reader) (*GoogleUserInfo, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var userInfo GoogleUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}
	return &userInfo, nil
}

// findOrCreateUserByEmail looks up the user by email, creating an account
// on first login. OAuth accounts carry an unusable password hash so they
// can never authenticate through the password route.
func (h *OAuthHandler) findOrCreateUserByEmail(ctx context.Context, email, name string) (*db.User, error) {
	user, err := h.db.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	user = &db.User{
		Email:        email,
		PasswordHash: "oauth:" + generateRandomState(),
		Name:         &name,
	}
	if err := h.db.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// generateRandomState generates a random state string for CSRF protection
func generateRandomState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}
