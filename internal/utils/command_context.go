package utils

import "context"

type configurationSourceContextKey struct{}

// CommandContextAccessor stores and retrieves the resolved configuration source on a command context.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationSource returns a child of parentContext that carries loadedConfiguration.
func (CommandContextAccessor) WithConfigurationSource(parentContext context.Context, loadedConfiguration LoadedConfiguration) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationSourceContextKey{}, loadedConfiguration)
}

// ConfigurationSource reports the configuration source attached to executionContext, if any.
func (CommandContextAccessor) ConfigurationSource(executionContext context.Context) (LoadedConfiguration, bool) {
	if executionContext == nil {
		return LoadedConfiguration{}, false
	}
	loadedConfiguration, found := executionContext.Value(configurationSourceContextKey{}).(LoadedConfiguration)
	return loadedConfiguration, found
}
