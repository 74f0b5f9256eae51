package storefront

// GraphQL fragments shared by product and cart operations. Field sets mirror
// what the storefront surfaces to shoppers; anything not listed here is
// intentionally not fetched.

const productFragment = `
fragment ProductFields on Product {
  id
  handle
  title
  description
  descriptionHtml
  vendor
  productType
  tags
  availableForSale
  totalInventory
  featuredImage {
    id
    url
    altText
    width
    height
  }
  images(first: 10) {
    edges {
      node {
        id
        url
        altText
        width
        height
      }
    }
  }
  priceRange {
    minVariantPrice {
      amount
      currencyCode
    }
    maxVariantPrice {
      amount
      currencyCode
    }
  }
  variants(first: 250) {
    edges {
      node {
        id
        title
        availableForSale
        quantityAvailable
        price {
          amount
          currencyCode
        }
        compareAtPrice {
          amount
          currencyCode
        }
        selectedOptions {
          name
          value
        }
        image {
          id
          url
          altText
        }
      }
    }
  }
}
`

const cartFragment = `
fragment CartFields on Cart {
  id
  checkoutUrl
  totalQuantity
  cost {
    subtotalAmount {
      amount
      currencyCode
    }
    totalAmount {
      amount
      currencyCode
    }
    totalTaxAmount {
      amount
      currencyCode
    }
  }
  lines(first: 50) {
    edges {
      node {
        id
        quantity
        attributes {
          key
          value
        }
        cost {
          totalAmount {
            amount
            currencyCode
          }
        }
        merchandise {
          ... on ProductVariant {
            id
            title
            availableForSale
            quantityAvailable
            price {
              amount
              currencyCode
            }
            selectedOptions {
              name
              value
            }
            product {
              id
              handle
              title
              featuredImage {
                url
                altText
              }
            }
          }
        }
      }
    }
  }
}
`

const queryProducts = productFragment + `
query Products($first: Int!, $query: String, $sortKey: ProductSortKeys, $reverse: Boolean) {
  products(first: $first, query: $query, sortKey: $sortKey, reverse: $reverse) {
    edges {
      node {
        ...ProductFields
      }
    }
  }
}
`

const queryProductByHandle = productFragment + `
query ProductByHandle($handle: String!) {
  product(handle: $handle) {
    ...ProductFields
  }
}
`

const queryCollectionProducts = productFragment + `
query CollectionProducts($handle: String!, $first: Int!) {
  collection(handle: $handle) {
    id
    handle
    title
    descriptionHtml
    products(first: $first) {
      edges {
        node {
          ...ProductFields
        }
      }
    }
  }
}
`

const queryCart = cartFragment + `
query Cart($cartId: ID!) {
  cart(id: $cartId) {
    ...CartFields
  }
}
`
