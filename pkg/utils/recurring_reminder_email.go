package utils

import (
	"fmt"
	"time"
)

func SendRecurringReminderEmail(to, username, description string, dueDate time.Time) error {
	subject := fmt.Sprintf("🔔 Reminder: '%s' is due today", description)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Recurring Expense Reminder</title>
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
			border-top: 5px solid #2e86de;
		}
		.header {
			background-color: #2e86de;
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
		.expense-box {
			background: #f2f8ff;
			border: 1px solid #bcd8f5;
			border-radius: 8px;
			padding: 12px 14px;
			margin: 16px 0;
			text-align: center;
			font-size: 15px;
			font-weight: 600;
			color: #1b4f8a;
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
			<h1>Recurring Expense Due</h1>
		</div>
		<div class="content">
			<p class="message">Hi %s,</p>
			<p class="message">Your recurring expense is due today, %s:</p>
			<div class="expense-box">%s</div>
			<p class="message">
				If you've already paid it, just log the expense and you're done.
			</p>
		</div>
		<div class="footer">
			You're receiving this because email alerts are enabled on your account.
		</div>
	</div>
	</body>
	</html>
	`, username, dueDate.Format("2 January 2006"), description)

	return SendEmail(to, subject, body)
}
