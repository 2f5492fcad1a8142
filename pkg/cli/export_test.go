package cli

var RunWithIO = run

var JoinFlags = joinFlags
