// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package draw

import (
	"github.com/devblok/glstage/gfx"
	"github.com/devblok/glstage/resource"
)

// bindTexture binds the texture of img to unit 0, uploading it on first use.
func (s *Session) bindTexture(img *resource.Image) {
	s.ctx.ActiveTexture(gfx.Texture0)
	if t, ok := s.textures[img]; ok {
		s.ctx.BindTexture(gfx.Texture2D, t)
	} else {
		t = s.ctx.CreateTexture()
		s.ctx.BindTexture(gfx.Texture2D, t)
		s.ctx.TexParameteri(gfx.Texture2D, gfx.TextureWrapS, int32(gfx.ClampToEdge))
		s.ctx.TexParameteri(gfx.Texture2D, gfx.TextureWrapT, int32(gfx.ClampToEdge))
		s.ctx.TexParameteri(gfx.Texture2D, gfx.TextureMinFilter, int32(gfx.Nearest))
		s.ctx.TexParameteri(gfx.Texture2D, gfx.TextureMagFilter, int32(gfx.Nearest))
		s.ctx.TexImage2D(gfx.Texture2D, 0, img.Width, img.Height, img.Pix)
		s.textures[img] = t
		s.logger.WithField("resource", img.ID).Debug("texture uploaded")
	}
	if u, ok := s.uniform(s.names.Image); ok {
		s.ctx.Uniform1i(u, 0)
	}
}

// releaseTextures deletes textures of images that keep does not hold.
func (s *Session) releaseTextures(keep *resource.Loaded) {
	held := make(map[*resource.Image]bool)
	if keep != nil {
		for _, img := range keep.Images {
			held[img] = true
		}
	}
	for img, t := range s.textures {
		if !held[img] {
			s.ctx.DeleteTexture(t)
			delete(s.textures, img)
		}
	}
}
