package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gowash/carwash-api/db"
	"github.com/gowash/carwash-api/models"
	"github.com/gowash/carwash-api/redis"
	"github.com/gowash/carwash-api/sms"
	"github.com/gowash/carwash-api/utils"
)

const tokenTTL = 24 * time.Hour

func signToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":   user.ID,
		"type": string(user.Role),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "solid_secret_key"
	}
	return token.SignedString([]byte(secret))
}

type registerInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address"`
}

// Register creates a customer account and returns a token
func Register(c *fiber.Ctx) error {
	input := new(registerInput)
	if err := c.BodyParser(input); err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Cannot parse JSON"))
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.JSONError(c, err)
	}

	user := models.User{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
		Role:    models.RoleCustomer,
	}
	return createAccount(c, &user, input.Password)
}

type registerProviderInput struct {
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	Phone       string   `json:"phone" validate:"required"`
	ServiceArea string   `json:"service_area" validate:"required"`
	Services    []string `json:"services" validate:"required,min=1"`
	Description string   `json:"description"`
}

// RegisterProvider creates a provider account and returns a token
func RegisterProvider(c *fiber.Ctx) error {
	input := new(registerProviderInput)
	if err := c.BodyParser(input); err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Cannot parse JSON"))
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.JSONError(c, err)
	}

	user := models.User{
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Role:        models.RoleProvider,
		ServiceArea: input.ServiceArea,
		Services:    models.StringList(input.Services),
		Description: input.Description,
	}
	return createAccount(c, &user, input.Password)
}

func createAccount(c *fiber.Ctx, user *models.User, rawPassword string) error {
	// Email is unique per account kind, so a customer and a provider may
	// share an address
	var existing models.User
	if db.DB.Where("email = ? AND role = ?", user.Email, user.Role).First(&existing).RowsAffected > 0 {
		return utils.JSONError(c, utils.NewError(utils.CodeDuplicateIdentity,
			fmt.Sprintf("A %s with this email already exists", user.Role)))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to hash password", err))
	}
	user.Password = string(hashed)

	if err := db.DB.Create(user).Error; err != nil {
		// Concurrent registration can slip past the lookup above and land
		// on the (email, role) unique index instead
		if utils.IsUniqueViolation(err) {
			return utils.JSONError(c, utils.NewError(utils.CodeDuplicateIdentity,
				fmt.Sprintf("A %s with this email already exists", user.Role)))
		}
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to create account", err))
	}

	token, err := signToken(user)
	if err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to generate token", err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token})
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates either account kind and returns a token. Customers
// are tried first, matching the mobile app's combined sign-in screen.
func Login(c *fiber.Ctx) error {
	input := new(loginInput)
	if err := c.BodyParser(input); err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Cannot parse JSON"))
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.JSONError(c, err)
	}

	var user models.User
	err := db.DB.Where("email = ? AND role = ?", input.Email, models.RoleCustomer).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = db.DB.Where("email = ? AND role = ?", input.Email, models.RoleProvider).First(&user).Error
	}
	if err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeInvalidCredentials, "Invalid credentials"))
	}

	// bcrypt comparison is constant-time
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeInvalidCredentials, "Invalid credentials"))
	}

	token, err := signToken(&user)
	if err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to generate token", err))
	}

	return c.JSON(fiber.Map{
		"token":    token,
		"userType": user.Role,
	})
}

// GetCurrentUser returns the authenticated account's profile
func GetCurrentUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return utils.JSONError(c, utils.FetchError(err, "Account not found"))
	}

	user.Password = ""
	return c.JSON(user)
}

// Logout revokes the presented token until its natural expiry
func Logout(c *fiber.Ctx) error {
	raw := c.Get("x-auth-token")
	token, ok := c.Locals("user").(*jwt.Token)
	if raw == "" || !ok {
		return utils.JSONError(c, utils.NewError(utils.CodeUnauthorized, "No authentication token"))
	}

	ttl := tokenTTL
	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		if exp, ok := claims["exp"].(float64); ok {
			if until := time.Until(time.Unix(int64(exp), 0)); until > 0 {
				ttl = until
			}
		}
	}

	if redis.Client != nil {
		if err := redis.Client.Set(redis.Ctx, "revoked:"+raw, "1", ttl).Err(); err != nil {
			log.Printf("Failed to revoke token: %v", err)
		}
	}

	return c.JSON(fiber.Map{"message": "Successfully logged out"})
}

const verificationTTL = 10 * time.Minute

// SendPhoneCode texts a verification code to the account's phone number and
// returns an opaque ticket for the verify step.
func SendPhoneCode(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return utils.JSONError(c, utils.FetchError(err, "Account not found"))
	}

	if sms.DefaultSender == nil {
		return utils.JSONError(c, utils.NewError(utils.CodeDependencyUnavailable, "SMS verification is not available"))
	}

	code := utils.GenerateVerificationCode()
	ticket := utils.GenerateTicket()

	ctx, cancel := context.WithTimeout(context.Background(), sms.SendTimeout)
	defer cancel()
	err := sms.DefaultSender.Send(ctx, user.Phone, "Your GoWash verification code is "+code)
	if err != nil {
		log.Printf("Failed to send verification SMS to user %d: %v", userID, err)
		return utils.JSONError(c, utils.NewError(utils.CodeDependencyUnavailable, "Could not send verification code"))
	}

	key := fmt.Sprintf("phone_verify:%s", ticket)
	value := fmt.Sprintf("%d:%s", userID, code)
	if err := redis.Client.Set(redis.Ctx, key, value, verificationTTL).Err(); err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to store verification ticket", err))
	}

	return c.JSON(fiber.Map{"ticket": ticket})
}

type verifyPhoneInput struct {
	Ticket string `json:"ticket" validate:"required"`
	Code   string `json:"code" validate:"required,len=6"`
}

// VerifyPhone checks the ticket and code and flags the phone as verified
func VerifyPhone(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	input := new(verifyPhoneInput)
	if err := c.BodyParser(input); err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Cannot parse JSON"))
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.JSONError(c, err)
	}

	key := fmt.Sprintf("phone_verify:%s", input.Ticket)
	stored, err := redis.Client.Get(redis.Ctx, key).Result()
	if err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Verification ticket expired or unknown"))
	}

	expected := fmt.Sprintf("%d:%s", userID, input.Code)
	if stored != expected {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Incorrect verification code"))
	}

	redis.Client.Del(redis.Ctx, key)

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("phone_verified", true).Error; err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to update account", err))
	}

	return c.JSON(fiber.Map{"verified": true})
}

type updateProfileInput struct {
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	Address     string   `json:"address"`
	ServiceArea string   `json:"service_area"`
	Services    []string `json:"services"`
	Description string   `json:"description"`
}

// UpdateProfile patches the mutable profile fields. Provider-only fields on
// a customer account are ignored.
func UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	input := new(updateProfileInput)
	if err := c.BodyParser(input); err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Cannot parse JSON"))
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		return utils.JSONError(c, utils.FetchError(err, "Account not found"))
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Phone != "" && input.Phone != user.Phone {
		user.Phone = input.Phone
		user.PhoneVerified = false
	}
	if user.Role == models.RoleCustomer && input.Address != "" {
		user.Address = input.Address
	}
	if user.Role == models.RoleProvider {
		if input.ServiceArea != "" {
			user.ServiceArea = input.ServiceArea
		}
		if input.Services != nil {
			user.Services = models.StringList(input.Services)
		}
		if input.Description != "" {
			user.Description = input.Description
		}
	}

	if err := db.DB.Save(&user).Error; err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to update profile", err))
	}

	user.Password = ""
	return c.JSON(user)
}

// UploadProfilePicture stores the uploaded image on Cloudinary and saves the URL
func UploadProfilePicture(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	fileHeader, err := c.FormFile("picture")
	if err != nil {
		return utils.JSONError(c, utils.NewError(utils.CodeValidation, "Missing picture file"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to read upload", err))
	}
	defer file.Close()

	url, err := utils.UploadProfilePicture(file, fmt.Sprintf("user-%d", userID))
	if err != nil {
		log.Printf("Cloudinary upload failed for user %d: %v", userID, err)
		return utils.JSONError(c, utils.NewError(utils.CodeDependencyUnavailable, "Image upload failed"))
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("profile_picture", url).Error; err != nil {
		return utils.JSONError(c, utils.WrapError(utils.CodeInternal, "Failed to save picture URL", err))
	}

	return c.JSON(fiber.Map{"profile_picture": url})
}
