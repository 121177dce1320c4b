package cloudinary

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/skillswap-gateway/internal/config"
)

// CloudinaryService подписывает параметры прямой загрузки аватаров в Cloudinary.
// Сам файл идет из браузера в Cloudinary напрямую, минуя шлюз.
type CloudinaryService struct {
	cfg          *config.Config
	uploadFolder string
	uploadPreset string
}

// NewCloudinaryService создает новый экземпляр CloudinaryService
func NewCloudinaryService(cfg *config.Config) *CloudinaryService {
	return &CloudinaryService{
		cfg:          cfg,
		uploadFolder: cfg.CloudinaryConfig.UploadFolder,
		uploadPreset: cfg.CloudinaryConfig.UploadPreset,
	}
}

// GenerateUploadParams создаёт подписанные параметры для загрузки аватара
func (s *CloudinaryService) GenerateUploadParams(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	// Группа загрузки, чтобы UI мог связать несколько файлов
	uploadGroupID := c.Query("upload_group_id")
	if uploadGroupID == "" {
		uploadGroupID = uuid.New().String()
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	params := url.Values{}
	params.Set("timestamp", timestamp)
	params.Set("folder", s.uploadFolder)
	params.Set("upload_preset", s.uploadPreset)

	signature, err := api.SignParameters(params, s.cfg.CloudinaryConfig.APISecret)
	if err != nil {
		log.Printf("Ошибка подписи параметров загрузки для пользователя %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sign upload params"})
	}

	return c.JSON(fiber.Map{
		"timestamp":       timestamp,
		"signature":       signature,
		"api_key":         s.cfg.CloudinaryConfig.APIKey,
		"cloud_name":      s.cfg.CloudinaryConfig.CloudName,
		"folder":          s.uploadFolder,
		"upload_preset":   s.uploadPreset,
		"upload_group_id": uploadGroupID,
	})
}
