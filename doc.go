// Package main provides the entry point of DishDash Admin, the server side
// console of the DishDash food delivery platform. It serves role specific
// login pages and dashboards with the Fiber framework, keeps the backend token
// of every console session in a fiber storage and ends sessions on logout,
// inactivity, token expiry or a 401 from the backend, on every node and tab.
package main
