// Package utils holds request payload guards shared by the HTTP handlers.
package utils
