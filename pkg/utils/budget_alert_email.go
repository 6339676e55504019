package utils

import (
	"fmt"
	"time"
)

func SendBudgetAlertEmail(to, username string, spent, limit string, month time.Time) error {
	subject := fmt.Sprintf("🚨 Monthly Budget Alert — ₹%s spent in %s", spent, month.Format("January 2006"))

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Budget Alert</title>
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f6f8f7;
			margin: 0;
			padding: 0;
			color: #333;
		}
		.container {
			max-width: 480px;
			margin: 25px auto;
			background: #ffffff;
			border-radius: 12px;
			box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
			overflow: hidden;
			border-top: 5px solid #d9534f;
		}
		.header {
			background-color: #d9534f;
			color: #ffffff;
			text-align: center;
			padding: 18px 12px;
		}
		.header h1 {
			margin: 0;
			font-size: 18px;
			font-weight: 600;
		}
		.content {
			padding: 20px 18px;
		}
		.message {
			font-size: 14px;
			line-height: 1.6;
			color: #444;
		}
		.amount-box {
			background: #fff6f6;
			border: 1px solid #f1c1c1;
			border-radius: 8px;
			padding: 12px 14px;
			margin: 16px 0;
			text-align: center;
			font-size: 16px;
			font-weight: 600;
			color: #a94442;
		}
		.footer {
			text-align: center;
			font-size: 12px;
			color: #999;
			padding: 14px;
			border-top: 1px solid #eee;
		}
	</style>
	</head>
	<body>
	<div class="container">
		<div class="header">
			<h1>Monthly Budget Alert</h1>
		</div>
		<div class="content">
			<p class="message">Hi %s,</p>
			<p class="message">
				You've spent <strong>₹%s</strong> so far in %s, against your
				monthly budget of <strong>₹%s</strong>.
			</p>
			<div class="amount-box">₹%s / ₹%s</div>
			<p class="message">
				Review your recent expenses and consider pausing non-essential
				purchases for the rest of the month.
			</p>
		</div>
		<div class="footer">
			You're receiving this because email alerts are enabled on your account.
		</div>
	</div>
	</body>
	</html>
	`, username, spent, month.Format("January 2006"), limit, spent, limit)

	return SendEmail(to, subject, body)
}
