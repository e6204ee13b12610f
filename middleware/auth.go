package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/minhanh/edushare-backend/models"
	"github.com/minhanh/edushare-backend/utils"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Thiếu Authorization header"})
			c.Abort()
			return
		}

		// Tách token khỏi chuỗi "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header không hợp lệ"})
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ hoặc hết hạn"})
			c.Abort()
			return
		}

		// Kiểm tra trạng thái user trong DB (nếu db đã được inject)
		if dbValue, exists := c.Get("db"); exists {
			db := dbValue.(*gorm.DB)
			var user models.User
			if err := db.Select("status").First(&user, "id = ?", claims.UserID).Error; err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Không tìm thấy người dùng"})
				c.Abort()
				return
			}
			if user.Status != nil && !*user.Status {
				c.JSON(http.StatusForbidden, gin.H{"error": "Tài khoản đã bị tạm khóa"})
				c.Abort()
				return
			}
		}

		// Lưu thông tin vào context để controller dùng
		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
