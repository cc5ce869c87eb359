package services

import (
	"errors"
	"time"

	"classroom-poll-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: []byte(jwtSecret)}
}

// Identity is the verified caller extracted from a token. The same identity
// is used by the HTTP middleware and the websocket handshake.
type Identity struct {
	UserID        uint
	Name          string
	Role          string
	StudentNumber string
}

type RegisterInput struct {
	Name          string
	Email         string
	Password      string
	Role          string
	StudentNumber string
}

func (s *AuthService) Register(input RegisterInput) (string, error) {
	var existing models.User
	if err := s.db.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return "", ErrAlreadyExists
	}
	if input.StudentNumber != "" {
		if err := s.db.Where("student_number = ?", input.StudentNumber).First(&existing).Error; err == nil {
			return "", ErrAlreadyExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	role := input.Role
	if role != models.RoleLecturer {
		role = models.RoleStudent
	}

	user := models.User{
		Name:          input.Name,
		Email:         input.Email,
		PasswordHash:  string(hash),
		Role:          role,
		StudentNumber: input.StudentNumber,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return "", err
	}

	return s.GenerateToken(&user)
}

func (s *AuthService) Login(email, password string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	return s.GenerateToken(&user)
}

func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":        user.ID,
		"name":           user.Name,
		"role":           user.Role,
		"student_number": user.StudentNumber,
		"exp":            time.Now().Add(24 * time.Hour).Unix(),
		"iat":            time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// Verify parses and validates a token and returns the caller's identity.
func (s *AuthService) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthenticated
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return nil, ErrUnauthenticated
	}

	identity := &Identity{UserID: uint(userIDFloat)}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}
	if role, ok := claims["role"].(string); ok {
		identity.Role = role
	}
	if sn, ok := claims["student_number"].(string); ok {
		identity.StudentNumber = sn
	}
	return identity, nil
}
