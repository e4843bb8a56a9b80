// Package templates holds the storefront page components. The *_templ.go files
// are generated from the .templ sources next to them.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.977 generate
