package permissions

import (
	"sort"

	"biz-tools-backend/models"
)

// Set - набор токенов разрешений с операциями над множествами
type Set map[models.PermissionToken]struct{}

func NewSet(tokens ...models.PermissionToken) Set {
	set := make(Set, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

func (s Set) Contains(token models.PermissionToken) bool {
	_, exist := s[token]
	return exist
}

func (s Set) ContainsAny(tokens []models.PermissionToken) bool {
	for _, token := range tokens {
		if s.Contains(token) {
			return true
		}
	}
	return false
}

func (s Set) IsSubsetOf(other Set) bool {
	for token := range s {
		if !other.Contains(token) {
			return false
		}
	}
	return true
}

// Difference возвращает токены, присутствующие в s и отсутствующие в other
func (s Set) Difference(other Set) Set {
	result := Set{}
	for token := range s {
		if !other.Contains(token) {
			result[token] = struct{}{}
		}
	}
	return result
}

func (s Set) List() []models.PermissionToken {
	result := make([]models.PermissionToken, 0, len(s))
	for token := range s {
		result = append(result, token)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i] < result[j]
	})
	return result
}

func (s Set) IsEmpty() bool {
	return len(s) == 0
}
