package security

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret []byte

// Configure sets the signing secret. Called once from main with the loaded
// config instead of reading the environment here.
func Configure(secret string) {
	jwtSecret = []byte(secret)
}

// GenerateToken issues a portal session token. The CRM bearer credential
// rides along as a claim; the portal itself stores no user records. An empty
// crmToken is valid and simply leaves the session unable to fetch.
func GenerateToken(accountID, role, crmToken string) (string, error) {
	claims := jwt.MapClaims{
		"accountID": accountID,
		"role":      role,
		"crmToken":  crmToken,
		"exp":       time.Now().Add(12 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// AccountFromContext returns the account id and CRM credential the
// middleware extracted. A missing credential claim is not an error; fetching
// is simply gated until one is present.
func AccountFromContext(c *gin.Context) (accountID, crmToken string, err error) {
	accountValue, exists := c.Get("accountID")
	if !exists {
		return "", "", fmt.Errorf("no account in request context")
	}
	accountID, ok := accountValue.(string)
	if !ok || accountID == "" {
		return "", "", fmt.Errorf("accountID is not a string")
	}

	if tokenValue, exists := c.Get("crmToken"); exists {
		crmToken, _ = tokenValue.(string)
	}

	return accountID, crmToken, nil
}
