// Package api provides the storefront REST API.
//
//	@title						Storefront API
//	@version					1.0
//	@description				Shoe store catalog, checkout and customer API
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT.
package api
