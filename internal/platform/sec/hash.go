// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for every new hash.
const PasswordCost = bcrypt.DefaultCost

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// Every call draws a fresh salt, so hashing the same input twice yields two
// different strings. Use [CheckPasswordHash] to compare.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
//
// A malformed or empty stored hash simply reports false.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
