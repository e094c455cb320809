package oauthlogin

// MicrosoftProfileFrom exposes the Graph profile loader with a test URL.
var MicrosoftProfileFrom = microsoftProfileFrom
