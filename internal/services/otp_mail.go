package services

import (
	"fmt"
	"time"

	"github.com/you/accountsvc/domain"
)

const otpEmailHTML = `
<div style="font-family: 'Arial', sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #ffffff; border-radius: 10px;">
    <h2 style="color: #4CAF50; text-align: center; margin-bottom: 30px;">%s</h2>
    <p style="font-size: 16px; color: #333; margin-bottom: 20px;">Dear User,</p>
    <p style="font-size: 16px; color: #555; margin-bottom: 30px;">%s</p>
    <div style="text-align: center; margin-bottom: 30px;">
        <span style="font-size: 28px; font-weight: bold; padding: 10px 20px; background-color: #4CAF50; color: #ffffff; border-radius: 5px; letter-spacing: 2px; display: inline-block;">%s</span>
    </div>
    <p style="font-size: 16px; color: #555; text-align: center; margin-bottom: 30px;">
        This OTP is valid for <strong>%d minutes</strong>.
    </p>
    <p style="font-size: 16px; color: #777; text-align: center;">
        If you did not request this, please ignore this email or contact our support team.
    </p>
</div>`

// buildOTPEmail renders the subject and HTML body for an OTP delivery. Each
// purpose keeps its own subject and intro line, mirroring the three templates
// the product defines for change, resend and reset.
func buildOTPEmail(purpose domain.OTPPurpose, code string, ttl time.Duration) (subject, body string) {
	var heading, intro string
	switch purpose {
	case domain.OTPPurposeResend:
		subject = "Your OTP for Password Change (Resend)"
		heading = "Resend OTP Request"
		intro = "As per your request, we have resent the OTP for your password change. Please use the following One-Time Password (OTP) to verify your identity:"
	case domain.OTPPurposeReset:
		subject = "Your OTP for Password Reset"
		heading = "Password Reset Request"
		intro = "We received a request to reset your password. Please use the following One-Time Password (OTP) to reset your account password:"
	default:
		subject = "Your OTP for Password Change"
		heading = "Password Change Request"
		intro = "You have requested to change your password. Please use the following One-Time Password (OTP) to verify your identity and proceed with the password change:"
	}

	body = fmt.Sprintf(otpEmailHTML, heading, intro, code, int(ttl.Minutes()))
	return subject, body
}
