package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"rentalbackend/internal/domain"
	"rentalbackend/internal/domain/models"
	"rentalbackend/internal/repositories"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	repo := repositories.UserRepo{}
	user, err := repo.GetByEmail(req.Email)
	if domain.IsNotFound(err) {
		respondError(c, http.StatusUnauthorized, "unauthorized", "wrong email or password")
		return
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respondError(c, http.StatusUnauthorized, "unauthorized", "wrong email or password")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   user.ID,
		"role":      user.Role,
		"zone_id":   user.ZoneID,
		"zone_code": user.ZoneCode,
		"zone_name": user.ZoneName,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	RespondData(c, http.StatusOK, gin.H{"token": signed, "user": user})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || len(req.Password) < 8 {
		RespondDomainError(c, domain.ValidationError{Field: "credentials", Msg: "email and a password of 8+ characters are required"})
		return
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	switch role {
	case "":
		role = domain.RoleBuyer
	case domain.RoleBuyer, domain.RoleSeller:
	default:
		// worker/admin accounts are provisioned, not self-registered
		RespondDomainError(c, domain.ValidationError{Field: "role", Msg: "only buyer and seller can self-register"})
		return
	}

	repo := repositories.UserRepo{}
	if _, err := repo.GetByEmail(req.Email); err == nil {
		RespondDomainError(c, domain.ConflictError{Resource: "user", Msg: "email already registered"})
		return
	} else if !domain.IsNotFound(err) {
		RespondDomainError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	id, err := repo.Create(models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hash),
		Role:         role,
		Status:       "active",
	})
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	RespondData(c, http.StatusCreated, gin.H{
		"id":    id,
		"name":  req.Name,
		"email": req.Email,
		"role":  role,
	})
}
