package services

import (
	"fmt"
	"log"
	"time"

	"duka/internal/models"
	"duka/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// TaskEnqueuer enqueues background work by task name and entity ID.
// *queue.Client satisfies it; services treat a nil enqueuer as "no queue
// configured" and skip enqueueing.
type TaskEnqueuer interface {
	Enqueue(taskName, entityID string) error
}

// welcomeEmailTask must match the name the notification worker routes on.
const welcomeEmailTask = "customer.welcome_email"

// AuthService handles customer accounts: registration, login, profile and
// password management.
type AuthService struct {
	customerRepo repositories.CustomerRepository
	jwtSecret    []byte
	tokenDurat   time.Duration // Duration for which JWT is valid
	tasks        TaskEnqueuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(customerRepo repositories.CustomerRepository, jwtSecret string, tasks TaskEnqueuer) *AuthService {
	return &AuthService{
		customerRepo: customerRepo,
		jwtSecret:    []byte(jwtSecret),
		tokenDurat:   24 * time.Hour, // Token valid for 24 hours
		tasks:        tasks,
	}
}

// RegisterCustomer registers a new customer, hashes their password and
// enqueues the welcome email after the account is persisted.
func (s *AuthService) RegisterCustomer(customer *models.Customer, password string) error {
	if existing, err := s.customerRepo.GetByEmail(customer.Email); err == nil && existing != nil {
		return fmt.Errorf("email '%s' already registered", customer.Email)
	}
	if existing, err := s.customerRepo.GetByUsername(customer.Username); err == nil && existing != nil {
		return fmt.Errorf("username '%s' already taken", customer.Username)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	customer.Password = string(hashedPassword)
	customer.IsActive = true

	if err := s.customerRepo.Create(customer); err != nil {
		return fmt.Errorf("failed to register customer: %w", err)
	}

	// Welcome email is fire-and-forget: a queue hiccup must not fail the
	// registration that already committed.
	if s.tasks != nil {
		if err := s.tasks.Enqueue(welcomeEmailTask, customer.ID); err != nil {
			log.Printf("Warning: failed to enqueue welcome email for customer %s: %v", customer.ID, err)
		}
	}
	return nil
}

// LoginCustomer authenticates a customer by email and returns a JWT token.
func (s *AuthService) LoginCustomer(email, password string) (string, error) {
	customer, err := s.customerRepo.GetByEmail(email)
	if err != nil {
		// Do not reveal whether the email exists.
		return "", fmt.Errorf("invalid credentials")
	}
	if !customer.IsActive {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  customer.ID,
		"email":    customer.Email,
		"is_staff": customer.IsStaff,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// GetCustomerByID retrieves a single customer.
func (s *AuthService) GetCustomerByID(id string) (*models.Customer, error) {
	return s.customerRepo.GetByID(id)
}

// GetAllCustomers retrieves all customers. Callers are expected to restrict
// this to staff.
func (s *AuthService) GetAllCustomers() ([]models.Customer, error) {
	return s.customerRepo.GetAll()
}

// ProfileUpdate carries the fields a customer may change on their own
// profile. Nil fields are left untouched.
type ProfileUpdate struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=30"`
	LastName  *string `json:"last_name" validate:"omitempty,max=30"`
	Phone     *string `json:"phone" validate:"omitempty,max=17"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
}

// UpdateProfile applies a partial update to the customer's profile.
func (s *AuthService) UpdateProfile(customerID string, update ProfileUpdate) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}

	if update.FirstName != nil {
		customer.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		customer.LastName = *update.LastName
	}
	if update.Phone != nil {
		customer.Phone = *update.Phone
	}
	if update.Address != nil {
		customer.Address = *update.Address
	}

	if err := s.customerRepo.Update(customer); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return customer, nil
}

// ChangePassword verifies the old password and replaces it with the new one.
func (s *AuthService) ChangePassword(customerID, oldPassword, newPassword string) error {
	customer, err := s.customerRepo.GetByID(customerID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(oldPassword)); err != nil {
		return fmt.Errorf("old password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	customer.Password = string(hashedPassword)

	if err := s.customerRepo.Update(customer); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}
