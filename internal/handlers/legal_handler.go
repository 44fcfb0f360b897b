package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type LegalHandler struct{}

func NewLegalHandler() *LegalHandler {
	return &LegalHandler{}
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Privacy Policy - LocalLoop</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>
</head><body>
<h1>Privacy Policy</h1>
<p>Last updated: August 2026</p>
<h2>Information We Collect</h2>
<p>We collect your email address when you sign in, the locations you attach to tips you share, and a device fingerprint that lets anonymous confirmations and likes work without an account.</p>
<h2>Location Data</h2>
<p>Tip locations are public by design: sharing a tip places it on the map for everyone nearby. We never track your location in the background; only the coordinates you explicitly attach to a tip are stored.</p>
<h2>How We Use Your Information</h2>
<p>Your data is used solely to operate LocalLoop, attribute your tips and comments, and keep the map current.</p>
<h2>Account Deletion</h2>
<p>You can delete your account and all associated data at any time from the app settings. Your tips, comments, confirmations, and likes are removed with it.</p>
<h2>Contact</h2>
<p>For questions about this policy, contact us at support@localloop.app</p>
</body></html>`)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Terms of Service - LocalLoop</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>
</head><body>
<h1>Terms of Service</h1>
<p>Last updated: August 2026</p>
<h2>Acceptance</h2>
<p>By using LocalLoop, you agree to these terms.</p>
<h2>Your Content</h2>
<p>Tips and comments you post are public. You are responsible for what you share; content that violates our guidelines may be removed and repeated abuse may lead to loss of access.</p>
<h2>Accuracy</h2>
<p>Tips are community-contributed and expire when neighbors stop confirming them. We make no guarantee that any tip is accurate or still valid.</p>
<h2>Service Changes</h2>
<p>We may modify or discontinue the service at any time.</p>
<h2>Contact</h2>
<p>For questions about these terms, contact us at support@localloop.app</p>
</body></html>`)
}
