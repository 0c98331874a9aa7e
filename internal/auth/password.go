package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives the bcrypt hash stored for an account password. Cost is
// configuration, not a constant: tests run at the minimum, deployments at 12.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword checks a login attempt against the stored hash. Callers must
// collapse any failure into the generic invalid-credentials outcome.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
