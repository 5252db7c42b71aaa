// Package lib holds building blocks that sit below the service layer but do
// not belong to a single domain: photo decoding (imagefield) and media file
// storage (media).
package lib
