package server

import "github.com/gin-gonic/gin"

// Registrar is a common interface for all HTTP service registrars.
// public routes need no session; protected routes sit behind the auth gate.
type Registrar interface {
	Register(public, protected *gin.RouterGroup)
}
