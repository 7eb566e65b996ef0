package utils

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NewTableToken membuat token opaque untuk QR login meja. Token lama
// langsung tidak berlaku begitu staff melakukan rotate.
func NewTableToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

var (
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
)

// BlacklistToken menandai access token tidak berlaku lagi (dipakai saat
// logout staff dan force-logout guest). Entry disimpan selama 24 jam,
// lebih lama dari umur access token manapun.
func BlacklistToken(token string) {
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	blacklistedTokens[token] = time.Now().Add(24 * time.Hour)
}

func IsTokenBlacklisted(token string) bool {
	blacklistMutex.RLock()
	expiry, exists := blacklistedTokens[token]
	blacklistMutex.RUnlock()

	if !exists {
		return false
	}
	if time.Now().Before(expiry) {
		return true
	}

	// Hapus entry kadaluarsa
	blacklistMutex.Lock()
	delete(blacklistedTokens, token)
	blacklistMutex.Unlock()
	return false
}
