// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface writes rendered frames to image files.
//
// Offscreen frames read back from the GPU arrive as *image.RGBA. WriteFile
// picks an encoder from the file extension:
//
//	img, err := offscreen.Snapshot()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := surface.WriteFile("triangle.png", img); err != nil {
//	    log.Fatal(err)
//	}
//
// # Formats
//
//   - ".png": image/png
//   - ".bmp": golang.org/x/image/bmp
//
// Further formats can be added with Register.
package surface
