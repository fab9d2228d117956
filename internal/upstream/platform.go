package upstream

import (
	"fmt"
	"runtime"
)

const geminiCLIVersion = "0.1.0"

// UserAgent mirrors the string the real Gemini CLI sends, so Code Assist
// treats this gateway like any other CLI client.
func UserAgent() string {
	return fmt.Sprintf("GeminiCLI/%s (%s; %s)", geminiCLIVersion, runtime.GOOS, runtime.GOARCH)
}

// PlatformString maps the running OS/arch onto the enum Code Assist expects
// in ClientMetadata.Platform.
func PlatformString() string {
	switch runtime.GOOS {
	case "darwin":
		if runtime.GOARCH == "arm64" {
			return "DARWIN_ARM64"
		}
		return "DARWIN_AMD64"
	case "linux":
		if runtime.GOARCH == "arm64" {
			return "LINUX_ARM64"
		}
		return "LINUX_AMD64"
	case "windows":
		return "WINDOWS_AMD64"
	default:
		return "PLATFORM_UNSPECIFIED"
	}
}
