package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Payload is a request body that supplies its own encoding. Bodies that do
// not implement it are sent as JSON.
type Payload interface {
	Encode() (body io.Reader, contentType string, err error)
}

// Multipart builds a multipart/form-data body.
type Multipart struct {
	parts []part
}

type part struct {
	name     string
	filename string
	value    string
	content  io.Reader
}

func NewMultipart() *Multipart {
	return &Multipart{}
}

// Field adds a plain form field.
func (m *Multipart) Field(name, value string) *Multipart {
	m.parts = append(m.parts, part{name: name, value: value})
	return m
}

// File adds a file part read from content when the body is encoded.
func (m *Multipart) File(name, filename string, content io.Reader) *Multipart {
	m.parts = append(m.parts, part{name: name, filename: filename, content: content})
	return m
}

func (m *Multipart) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range m.parts {
		if p.content == nil {
			if err := w.WriteField(p.name, p.value); err != nil {
				return nil, "", fmt.Errorf("write field %s: %w", p.name, err)
			}
			continue
		}

		fw, err := w.CreateFormFile(p.name, p.filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", p.name, err)
		}
		if _, err := io.Copy(fw, p.content); err != nil {
			return nil, "", fmt.Errorf("copy file part %s: %w", p.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
