package services

import (
	"errors"
	"fmt"
)

// DomainError adalah penolakan aturan bisnis (meja hidden, dish habis,
// order sudah dibayar, dst). Pesannya dibedakan per kasus karena client
// guest melakukan branching berdasarkan isi pesan.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func domainErrorf(format string, args ...interface{}) *DomainError {
	return &DomainError{Message: fmt.Sprintf(format, args...)}
}

// ErrTableNumberTaken -> nomor meja sudah dipakai (409).
var ErrTableNumberTaken = errors.New("table number already exists")

// ErrInvalidRefreshToken -> refresh token gagal verifikasi (401).
var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

// IsDomainError membantu controller memetakan error ke status code.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
