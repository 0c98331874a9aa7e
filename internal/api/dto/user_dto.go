package dto

// ProfileUpdateRequest payload for PUT /api/usuarios/perfil. Empty fields are
// left unchanged.
type ProfileUpdateRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}
