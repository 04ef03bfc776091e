// cld-uploader uploads batches of local images to Cloudinary.
//
// The version is stamped at build time:
//
//	go build -ldflags "-X github.com/Shawn-29/Cloudinary-Image-Uploader/internal/version.Version=v1.2.3" ./cmd/cld-uploader
package main

import (
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/cli"
)

func main() {
	cli.Execute()
}
