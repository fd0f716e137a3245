// Package textutil sanitizes user-facing names for safe filesystem use.
package textutil
