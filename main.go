package main

import "github.com/killallgit/review-api/cmd"

// @title           Transcript Review API
// @version         1.0.0
// @description     A review backend for podcast transcripts: flags, chapters, characters, voice samples, and background analysis jobs
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/review-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:9090
// @BasePath        /
// @schemes         http
func main() {
	cmd.Execute()
}
