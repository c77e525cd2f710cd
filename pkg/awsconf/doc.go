// Package awsconf loads the AWS SDK configuration used by the SES mail
// sender and the SNS push channel.
package awsconf
